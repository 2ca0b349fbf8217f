package server

import (
	"context"
	"encoding/json"

	"github.com/go-zeromq/zmq4"
	"github.com/pkg/errors"
)

// changeTopic prefixes every published frame so subscribers can filter.
const changeTopic = "cells"

// Publisher pushes committed cell changes to a ZeroMQ PUB socket, for
// programmatic subscribers that want the same feed the websocket clients
// get.
type Publisher struct {
	sock zmq4.Socket
}

// NewPublisher binds a PUB socket to the endpoint, e.g.
// "tcp://127.0.0.1:5556".
func NewPublisher(ctx context.Context, endpoint string) (*Publisher, error) {
	sock := zmq4.NewPub(ctx)
	if err := sock.Listen(endpoint); err != nil {
		return nil, errors.Wrapf(err, "bind publish endpoint %s", endpoint)
	}
	return &Publisher{sock: sock}, nil
}

// PublishChanges sends one two-frame message: the topic and the JSON
// encoded batch of cell events.
func (p *Publisher) PublishChanges(events []Event) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return errors.Wrap(err, "encode change batch")
	}
	msg := zmq4.NewMsgFrom([]byte(changeTopic), payload)
	return errors.Wrap(p.sock.Send(msg), "publish change batch")
}

func (p *Publisher) Close() {
	if p != nil && p.sock != nil {
		_ = p.sock.Close()
	}
}
