package app

import (
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestInitKafkaProducer_EmptyBrokers(t *testing.T) {
	logger := log.WithField("test", "kafka")

	producer, err := initKafkaProducer(nil, logger)

	if err != nil {
		t.Errorf("expected no error for empty brokers, got %v", err)
	}
	if producer != nil {
		t.Error("expected nil producer for empty brokers")
	}
}

func TestInitKafkaProducer_InvalidBrokers(t *testing.T) {
	logger := log.WithField("test", "kafka")

	producer, err := initKafkaProducer([]string{"invalid-broker:9999"}, logger)

	if err == nil {
		t.Error("expected error for invalid brokers")
	}
	if producer != nil {
		t.Error("expected nil producer on error")
	}
}

func TestCloseKafka_NilProducer(_ *testing.T) {
	logger := log.WithField("test", "kafka")

	// Не должно паниковать
	closeKafka(nil, logger)
}

func TestSplitBrokers(t *testing.T) {
	got := splitBrokers("broker1:9092, broker2:9092,,broker3:9092 ")
	want := []string{"broker1:9092", "broker2:9092", "broker3:9092"}

	if len(got) != len(want) {
		t.Fatalf("expected %d brokers, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("broker %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if splitBrokers("  ") != nil {
		t.Error("expected nil for blank brokers")
	}
}
