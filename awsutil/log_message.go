package awsutil

import (
	"fmt"

	"github.com/mongodb/grip/message"
)

// MakeAPILogMessage returns a structured log message for an AWS API call.
// Callers must ensure the input does not contain secret material.
func MakeAPILogMessage(api string, in interface{}) message.Fields {
	return message.Fields{
		"message": "AWS API call",
		"api":     api,
		"input":   fmt.Sprintf("%+v", in),
	}
}
