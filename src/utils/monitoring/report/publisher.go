package report

import (
	"go.uber.org/atomic"
)

type PublisherState struct {
	MessagesPublished atomic.Uint64 `json:"messages_published"`
}

type PublisherErrors struct {
	Publish           atomic.Uint64 `json:"publish"`
	PersistentFailure atomic.Uint64 `json:"persistent_failure"`
}

type PublisherReport struct {
	State  PublisherState  `json:"state"`
	Errors PublisherErrors `json:"errors"`
}
