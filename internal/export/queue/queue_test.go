package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	claims "claimdocs/internal/claims/models"
	id "claimdocs/pkg/domain"
	dErrors "claimdocs/pkg/domain-errors"
)

type recordedPublish struct {
	topic   string
	key     []byte
	value   []byte
	headers map[string]string
}

type stubRecords struct {
	got []recordedPublish
	err error
}

func (s *stubRecords) Publish(_ context.Context, topic string, key, value []byte, headers map[string]string) error {
	s.got = append(s.got, recordedPublish{topic, key, value, headers})
	return s.err
}

func zipMessage() Message {
	return Message{
		Kind:                   KindZip,
		ClaimID:                id.NewClaimID(),
		ArtifactDocumentTypeID: claims.DocumentTypeZip,
		GroupID:                claims.GroupAdminDocs,
		SortPriority:           10,
		RequestID:              "req-1",
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" ZIP_Email ")
	require.NoError(t, err)
	assert.Equal(t, KindZipAndEmail, k)

	_, err = ParseKind("tar")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Message)
		ok     bool
	}{
		{"valid zip", func(*Message) {}, true},
		{"missing claim", func(m *Message) { m.ClaimID = id.ClaimID{} }, false},
		{"zip with pdf type", func(m *Message) { m.ArtifactDocumentTypeID = claims.DocumentTypePdf }, false},
		{"pdf with pdf type", func(m *Message) {
			m.Kind = KindPdf
			m.ArtifactDocumentTypeID = claims.DocumentTypePdf
		}, true},
		{"bad group", func(m *Message) { m.GroupID = claims.Group(99) }, false},
		{"email without address", func(m *Message) {
			m.Kind = KindZipAndEmail
			m.EmailTo = "nobody"
		}, false},
		{"email with address", func(m *Message) {
			m.Kind = KindZipAndEmail
			m.EmailTo = "adjuster@example.com"
		}, true},
		{"unknown kind", func(m *Message) { m.Kind = "tar" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := zipMessage()
			tt.mutate(&m)
			err := m.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
		})
	}
}

func TestNormalize(t *testing.T) {
	claimID := id.NewClaimID()

	t.Run("zip email gets zip artifact and default placement", func(t *testing.T) {
		m, err := Message{ClaimID: claimID, EmailTo: "adjuster@example.com"}.Normalize(KindZipAndEmail, DefaultZipEmail)
		require.NoError(t, err)
		assert.Equal(t, KindZipAndEmail, m.Kind)
		assert.Equal(t, claims.DocumentTypeZip, m.ArtifactDocumentTypeID)
		assert.Equal(t, claims.GroupAdminDocs, m.GroupID)
		assert.Equal(t, 100, m.SortPriority)
	})

	t.Run("zip email keeps an explicit group", func(t *testing.T) {
		in := Message{Kind: KindZipAndEmail, ClaimID: claimID, EmailTo: "a@b.c", GroupID: claims.GroupPicturesPerItem, SortPriority: 3}
		m, err := in.Normalize(KindZipAndEmail, DefaultZipEmail)
		require.NoError(t, err)
		assert.Equal(t, claims.GroupPicturesPerItem, m.GroupID)
		assert.Equal(t, 3, m.SortPriority)
	})

	t.Run("pdf without artifact type", func(t *testing.T) {
		m, err := Message{ClaimID: claimID, GroupID: claims.GroupAdminDocs}.Normalize(KindPdf, DefaultZipEmail)
		require.NoError(t, err)
		assert.Equal(t, claims.DocumentTypePdf, m.ArtifactDocumentTypeID)
	})

	t.Run("kind disagreeing with topic", func(t *testing.T) {
		_, err := zipMessage().Normalize(KindPdf, DefaultZipEmail)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
	})

	t.Run("zip email with pdf artifact", func(t *testing.T) {
		in := Message{ClaimID: claimID, EmailTo: "a@b.c", ArtifactDocumentTypeID: claims.DocumentTypePdf}
		_, err := in.Normalize(KindZipAndEmail, DefaultZipEmail)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
	})
}

func TestKindForTopic(t *testing.T) {
	k, ok := KindForTopic("claims.export", "claims.export.zip_email")
	assert.True(t, ok)
	assert.Equal(t, KindZipAndEmail, k)

	_, ok = KindForTopic("claims.export", "claims.export.zip.dlq")
	assert.False(t, ok)
}

func TestPublisherEnqueue(t *testing.T) {
	records := &stubRecords{}
	p := NewPublisher(records, "claims.export")
	msg := zipMessage()

	require.NoError(t, p.Enqueue(context.Background(), msg))

	require.Len(t, records.got, 1)
	got := records.got[0]
	assert.Equal(t, "claims.export.zip", got.topic)
	assert.Equal(t, msg.ClaimID.String(), string(got.key))
	assert.Equal(t, "zip", got.headers["kind"])
	assert.Equal(t, "req-1", got.headers["request_id"])

	decoded, err := Decode(got.value)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestPublisherRejectsInvalid(t *testing.T) {
	records := &stubRecords{}
	p := NewPublisher(records, "claims.export")
	msg := zipMessage()
	msg.GroupID = 0

	assert.Error(t, p.Enqueue(context.Background(), msg))
	assert.Empty(t, records.got)
}

func TestPublisherPropagatesError(t *testing.T) {
	records := &stubRecords{err: errors.New("broker down")}
	p := NewPublisher(records, "claims.export")

	assert.ErrorContains(t, p.Enqueue(context.Background(), zipMessage()), "broker down")
}

func TestTopics(t *testing.T) {
	assert.Equal(t, []string{"x.zip", "x.pdf", "x.zip_email"}, Topics("x"))
	assert.Equal(t, []string{"x.zip.dlq", "x.pdf.dlq", "x.zip_email.dlq"}, DeadLetterTopics("x"))
}
