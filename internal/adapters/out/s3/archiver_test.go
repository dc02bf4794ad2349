package s3_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	archive "custody/internal/adapters/out/s3"
	"custody/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct{ mock.Mock }

func (m *MockClient) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func TestArchiver_Archive(t *testing.T) {
	var put *s3.PutObjectInput
	client := new(MockClient)
	client.On("PutObject", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { put = args.Get(1).(*s3.PutObjectInput) }).
		Return(&s3.PutObjectOutput{}, nil).Once()

	doc := map[string]any{"listingCode": "LST-2026-000301", "dropTags": []string{"DT-2026-000011"}}
	uri, err := archive.NewArchiverWithClient(client, "custody-archive", "listings").
		Archive(t.Context(), "2026/LST-2026-000301.json", doc)
	require.NoError(t, err)
	client.AssertExpectations(t)

	assert.Equal(t, "s3://custody-archive/listings/2026/LST-2026-000301.json", uri)
	assert.Equal(t, "custody-archive", aws.ToString(put.Bucket))
	assert.Equal(t, "listings/2026/LST-2026-000301.json", aws.ToString(put.Key))
	assert.Equal(t, "application/json", aws.ToString(put.ContentType))

	body, err := io.ReadAll(put.Body)
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), aws.ToInt64(put.ContentLength))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "LST-2026-000301", decoded["listingCode"])
}

func TestArchiver_Archive_NoPrefix(t *testing.T) {
	client := new(MockClient)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Key) == "a.json"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	uri, err := archive.NewArchiverWithClient(client, "b", "").Archive(t.Context(), "a.json", struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "s3://b/a.json", uri)
	client.AssertExpectations(t)
}

func TestArchiver_Archive_Failures(t *testing.T) {
	t.Run("empty key", func(t *testing.T) {
		client := new(MockClient)
		_, err := archive.NewArchiverWithClient(client, "b", "").Archive(t.Context(), "", struct{}{})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
	})

	t.Run("unencodable document", func(t *testing.T) {
		client := new(MockClient)
		_, err := archive.NewArchiverWithClient(client, "b", "").Archive(t.Context(), "k.json", make(chan int))
		require.Error(t, err)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
	})

	t.Run("put rejected", func(t *testing.T) {
		denied := errors.New("AccessDenied")
		client := new(MockClient)
		client.On("PutObject", mock.Anything, mock.Anything).Return(nil, denied).Once()
		_, err := archive.NewArchiverWithClient(client, "b", "p").Archive(t.Context(), "k.json", struct{}{})
		require.ErrorIs(t, err, denied)
		assert.Contains(t, err.Error(), "p/k.json")
	})
}

func TestNewArchiver_RequiresBucket(t *testing.T) {
	_, err := archive.NewArchiver(t.Context(), archive.Options{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
