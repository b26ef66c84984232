package pubsub

import (
	"context"
	"testing"

	"github.com/demolux/storefront/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	c := &Client{projectID: "demo-project"}
	cases := map[string]string{
		"":                                  "",
		"events":                            "projects/demo-project/topics/events",
		"projects/other/topics/personalize": "projects/other/topics/personalize",
	}
	for in, want := range cases {
		if got := c.topicResourceName(in); got != want {
			t.Fatalf("topicResourceName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewClientRequiresProject(t *testing.T) {
	if _, err := NewClient(context.Background(), config.PubSubConfig{}, nil); err != errProjectIDRequired {
		t.Fatalf("expected errProjectIDRequired, got %v", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.EventsPublisher() != nil {
		t.Fatal("expected nil publisher")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}
