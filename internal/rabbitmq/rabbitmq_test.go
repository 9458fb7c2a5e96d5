package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
)

type ChannelMock struct {
	mock.Mock
}

func (m *ChannelMock) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

type DeliveryMock struct {
	mock.Mock
}

func (m *DeliveryMock) Ack(multiple bool) error {
	return m.Called(multiple).Error(0)
}

func (m *DeliveryMock) Nack(multiple, requeue bool) error {
	return m.Called(multiple, requeue).Error(0)
}

func TestPublishMessage(t *testing.T) {
	ch := new(ChannelMock)
	message := map[string]any{"type": "payment.receipt", "email": "a@x.com"}

	ch.On("Publish", "momenta", "payment.receipt", false, false, mock.MatchedBy(func(p amqp.Publishing) bool {
		var got map[string]any
		if err := json.Unmarshal(p.Body, &got); err != nil {
			return false
		}
		return p.ContentType == "application/json" &&
			p.DeliveryMode == amqp.Persistent &&
			got["email"] == "a@x.com"
	})).Return(nil).Once()

	err := PublishMessage(ch, "momenta", "payment.receipt", message)
	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestPublishMessage_Errors(t *testing.T) {
	ch := new(ChannelMock)
	ch.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed")).Once()

	err := PublishMessage(ch, "momenta", "x", "body")
	assert.ErrorContains(t, err, "channel closed")

	err = PublishMessage(ch, "momenta", "x", make(chan int))
	assert.Error(t, err, "unserializable message")
	ch.AssertExpectations(t)
}

func TestHandle(t *testing.T) {
	log := sl.Discard()

	t.Run("ack on success", func(t *testing.T) {
		d := new(DeliveryMock)
		d.On("Ack", false).Return(nil).Once()
		Handle(d, []byte("{}"), func([]byte) error { return nil }, log)
		d.AssertExpectations(t)
	})

	t.Run("requeue on failure", func(t *testing.T) {
		d := new(DeliveryMock)
		d.On("Nack", false, true).Return(nil).Once()
		Handle(d, []byte("{}"), func([]byte) error { return errors.New("smtp down") }, log)
		d.AssertExpectations(t)
		d.AssertNotCalled(t, "Ack", mock.Anything)
	})
}
