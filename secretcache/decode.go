package secretcache

import (
	"encoding/json"
	"strings"

	"github.com/evergreen-ci/cachette"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

// decodePayload converts a raw source payload into a cached value. A string
// payload that presents itself as a JSON document must parse - a parse
// failure is a fetch failure, not an empty value. Binary payloads are cached
// as the raw decoded bytes; any other string payload is cached as plain
// text.
func decodePayload(p *cachette.Payload) (cachette.Value, error) {
	if p == nil {
		return cachette.Value{}, errors.New("source returned no payload")
	}

	if p.String != nil {
		raw := utility.FromStringPtr(p.String)
		if strings.HasPrefix(strings.TrimSpace(raw), "{") {
			var doc map[string]interface{}
			if err := json.Unmarshal([]byte(raw), &doc); err != nil {
				return cachette.Value{}, errors.Wrap(err, "parsing document payload")
			}
			return cachette.NewDocumentValue(doc), nil
		}
		return cachette.NewStringValue(raw), nil
	}

	if p.Binary != nil {
		return cachette.NewBinaryValue(p.Binary), nil
	}

	return cachette.Value{}, errors.New("payload has neither a string nor a binary value")
}
