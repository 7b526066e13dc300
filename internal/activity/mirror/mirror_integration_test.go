//go:build integration

package mirror_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"bitacora/internal/activity/mirror"
	"bitacora/internal/activity/models"
	id "bitacora/pkg/domain"
	"bitacora/pkg/testutil/containers"
)

const testTopic = "activity-records-test"

type MirrorSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	producer *kgo.Client
}

func TestMirrorSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MirrorSuite))
}

func (s *MirrorSuite) SetupSuite() {
	s.redpanda = containers.NewRedpandaContainer(s.T())

	client, err := kgo.NewClient(kgo.SeedBrokers(s.redpanda.Broker))
	s.Require().NoError(err)
	s.producer = client

	admin := kadm.NewClient(client)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err = admin.CreateTopics(ctx, 1, 1, nil, testTopic)
	s.Require().NoError(err)
}

func (s *MirrorSuite) TearDownSuite() {
	s.producer.Close()
	_ = s.redpanda.Container.Terminate(context.Background())
}

func (s *MirrorSuite) TestRecordsReachTheTopic() {
	m := mirror.New(s.producer, testTopic)

	runCtx, cancelRun := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Run(runCtx)
	}()

	actorID := id.NewActorID()
	at := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	record, err := models.NewRecord(models.EntityClient, "c-1", models.EventClientEdited, actorID,
		[]models.EntityChange{{Field: "email", Label: "Email", From: "a@b.com", To: "c@d.com"}},
		"", at)
	s.Require().NoError(err)

	m.Offer(record)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(testTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetchCtx, cancelFetch := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelFetch()
	fetches := consumer.PollFetches(fetchCtx)
	s.Require().NoError(fetches.Err())

	records := fetches.Records()
	s.Require().NotEmpty(records)
	s.Equal("client/c-1", string(records[0].Key))

	var decoded models.ActivityRecord
	s.Require().NoError(json.Unmarshal(records[0].Value, &decoded))
	s.Equal(record.ID, decoded.ID)
	s.Equal(models.EventClientEdited, decoded.EventKind)
	s.Require().Len(decoded.Changes, 1)
	s.Equal("email", decoded.Changes[0].Field)

	cancelRun()
	<-done
}
