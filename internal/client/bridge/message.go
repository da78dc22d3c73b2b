package bridge

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/dmitrijs2005/finlink/internal/common"
	"github.com/dmitrijs2005/finlink/internal/models"
)

const (
	TypeInitialized = "initialized"
	TypeSuccess     = "success"
	TypeExit        = "exit"
	TypeFailure     = "failure"
)

//go:embed message.schema.json
var messageSchemaJSON []byte

var messageSchema = mustSchema(messageSchemaJSON)

func mustSchema(b []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		panic(fmt.Sprintf("bridge: invalid message schema: %v", err))
	}
	return s
}

// Message is one of Initialized, Success, Exit, Failure or Unknown.
type Message interface {
	messageType() string
}

type Initialized struct{}

type Success struct {
	Enrollment models.Enrollment
}

type Exit struct{}

// FailureDetail is the widget's error object.
type FailureDetail struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (f FailureDetail) Error() string {
	if f.Code != "" {
		return fmt.Sprintf("%s (%s)", f.Message, f.Code)
	}
	return f.Message
}

type Failure struct {
	Detail FailureDetail
}

// Unknown carries a tag this bridge does not understand.
type Unknown struct {
	Type string
}

func (Initialized) messageType() string { return TypeInitialized }
func (Success) messageType() string     { return TypeSuccess }
func (Exit) messageType() string        { return TypeExit }
func (Failure) messageType() string     { return TypeFailure }
func (u Unknown) messageType() string   { return u.Type }

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeMessage parses a raw {type, payload} message posted by the widget
// page. Malformed input yields common.ErrMessageParse.
func DecodeMessage(raw []byte) (Message, error) {
	res, err := messageSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMessageParse, err)
	}
	if !res.Valid() {
		details := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			details = append(details, e.String())
		}
		return nil, fmt.Errorf("%w: %s", common.ErrMessageParse, strings.Join(details, "; "))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMessageParse, err)
	}

	switch env.Type {
	case TypeInitialized:
		return Initialized{}, nil
	case TypeExit:
		return Exit{}, nil
	case TypeSuccess:
		var e models.Enrollment
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("%w: success payload: %w", common.ErrMessageParse, err)
		}
		return Success{Enrollment: e}, nil
	case TypeFailure:
		var d FailureDetail
		if len(env.Payload) > 0 && string(env.Payload) != "null" {
			if err := json.Unmarshal(env.Payload, &d); err != nil {
				return nil, fmt.Errorf("%w: failure payload: %w", common.ErrMessageParse, err)
			}
		}
		if d.Message == "" {
			d.Message = "enrollment failed"
		}
		return Failure{Detail: d}, nil
	default:
		return Unknown{Type: env.Type}, nil
	}
}
