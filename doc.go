/*
Package cachette provides a client-side, periodically refreshing cache for
secrets held by a remote secret-management service. Secrets are tracked by
short caller-chosen aliases rather than the provider's full resource
identifiers.

The SecretCache interface provides an abstraction to read tracked secrets
without needing to make direct calls to the secret-management service - the
cache fetches every tracked secret in the background on a fixed interval,
retries transient failures with exponential backoff, and notifies registered
observers when a value changes or a fetch ultimately fails.

The SecretSource interface is the boundary to the remote service. The
secretsmanager subpackage provides an implementation backed by AWS Secrets
Manager; the mock subpackage provides a fake for testing.
*/
package cachette
