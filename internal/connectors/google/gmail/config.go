package gmail

import "fmt"

// Config holds watch registration configuration.
type Config struct {
	// Project is the GCP project that owns the Pub/Sub topic.
	Project string
	// Topic is the short Pub/Sub topic name notifications publish to.
	Topic string
	// LabelIDs limits notifications to specific labels.
	// If empty, INBOX is watched.
	LabelIDs []string
}

// DefaultLabelIDs is the label filter applied when none is configured.
var DefaultLabelIDs = []string{"INBOX"}

// TopicName returns the fully-qualified Pub/Sub topic path expected by
// the watch call.
func (c Config) TopicName() string {
	return fmt.Sprintf("projects/%s/topics/%s", c.Project, c.Topic)
}

// Labels returns the configured label filter or the default.
func (c Config) Labels() []string {
	if len(c.LabelIDs) > 0 {
		return c.LabelIDs
	}
	return DefaultLabelIDs
}

// Validate checks that the topic path can be constructed.
func (c Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("gmail: project is required")
	}
	if c.Topic == "" {
		return fmt.Errorf("gmail: topic is required")
	}
	return nil
}
