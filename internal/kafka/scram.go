package kafka

import (
	"fmt"

	"github.com/IBM/sarama"
	"github.com/xdg-go/scram"
)

var _ sarama.SCRAMClient = (*scramClient)(nil)

// scramMechanism pairs a sarama SASL type with its SCRAM hash.
type scramMechanism struct {
	saslType sarama.SASLMechanism
	hashGen  scram.HashGeneratorFcn
}

var scramMechanisms = map[string]scramMechanism{
	MechanismSCRAMSHA256: {sarama.SASLTypeSCRAMSHA256, scram.SHA256},
	MechanismSCRAMSHA512: {sarama.SASLTypeSCRAMSHA512, scram.SHA512},
}

// scramClient runs one xdg-go/scram conversation for sarama.
type scramClient struct {
	hashGen      scram.HashGeneratorFcn
	conversation *scram.ClientConversation
}

func newSCRAMClient(hashGen scram.HashGeneratorFcn) *scramClient {
	return &scramClient{hashGen: hashGen}
}

// Begin starts a new conversation for the given credentials.
func (c *scramClient) Begin(userName, password, authzID string) error {
	client, err := c.hashGen.NewClient(userName, password, authzID)
	if err != nil {
		return fmt.Errorf("failed to create SCRAM client: %w", err)
	}
	c.conversation = client.NewConversation()
	return nil
}

// Step answers one server challenge.
func (c *scramClient) Step(challenge string) (string, error) {
	if c.conversation == nil {
		return "", fmt.Errorf("SCRAM conversation not started")
	}
	return c.conversation.Step(challenge)
}

// Done reports whether the conversation completed.
func (c *scramClient) Done() bool {
	return c.conversation != nil && c.conversation.Done()
}
