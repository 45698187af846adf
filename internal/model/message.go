// internal/model/message.go
package model

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Message is a stored inbound SMS event. MessageID is supplied by the
// upstream sender and acts as the idempotency key; CreatedAt is assigned by
// the store at insert time.
type Message struct {
	MessageID string    `db:"message_id" json:"message_id"`
	From      string    `db:"from_msisdn" json:"from"`
	To        string    `db:"to_msisdn" json:"to"`
	TS        time.Time `db:"ts" json:"ts"`
	Text      *string   `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// WebhookPayload is the inbound webhook body. The constraints mirror the
// upstream sender's contract: msisdns are a leading + followed by digits,
// text is optional and capped at 4096 characters.
type WebhookPayload struct {
	MessageID string    `json:"message_id" validate:"required"`
	From      string    `json:"from" validate:"required,msisdn"`
	To        string    `json:"to" validate:"required,msisdn"`
	TS        time.Time `json:"ts" validate:"required"`
	Text      *string   `json:"text" validate:"omitempty,max=4096"`
}

// ToMessage converts a validated payload into its stored form. Timestamps
// are normalized to UTC so ordering does not depend on the sender's zone.
func (p *WebhookPayload) ToMessage() *Message {
	return &Message{
		MessageID: p.MessageID,
		From:      p.From,
		To:        p.To,
		TS:        p.TS.UTC(),
		Text:      p.Text,
	}
}

var msisdnPattern = regexp.MustCompile(`^\+\d+$`)

// NewValidator builds the payload validator with the msisdn rule registered
// and field errors reported under their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		return msisdnPattern.MatchString(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
