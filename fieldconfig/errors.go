package fieldconfig

import "errors"

// Customer-facing messages of rejected configuration payloads.
const (
	MsgEmptyBody    = "[ERROR] The input body cannot be null or empty"
	MsgMalformed    = "[ERROR] The configuration was malformed. Please make sure it matches the configuration schema"
	MsgDuplicated   = "[ERROR] The configuration contains duplicated index-fieldName pair"
	MsgMissingField = "[ERROR] Some fields are missing or empty in the configuration"
)

var (
	// ErrEmptyBody is returned for an empty payload.
	ErrEmptyBody = errors.New("empty configuration payload")

	// ErrMalformed is returned when the payload is not valid JSON or does not
	// match the configuration schema.
	ErrMalformed = errors.New("malformed configuration payload")

	// ErrDuplicated is returned when two entries share an (indexName, fieldName) pair.
	ErrDuplicated = errors.New("duplicated configuration entry")

	// ErrMissingField is returned when an entry has a missing or empty attribute.
	ErrMissingField = errors.New("configuration entry has missing fields")
)

// CustomerMessage returns the message reported to the caller for a Decode
// error, or "" if err is not a payload rejection.
func CustomerMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyBody):
		return MsgEmptyBody
	case errors.Is(err, ErrMalformed):
		return MsgMalformed
	case errors.Is(err, ErrDuplicated):
		return MsgDuplicated
	case errors.Is(err, ErrMissingField):
		return MsgMissingField
	}
	return ""
}
