package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

type fakeDynamo struct {
	putInputs    []*dynamodb.PutItemInput
	deleteInputs []*dynamodb.DeleteItemInput
	getItem      map[string]ddbtypes.AttributeValue
	queryItems   []map[string]ddbtypes.AttributeValue
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInputs = append(f.putInputs, in)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.getItem}, nil
}

func (f *fakeDynamo) Query(_ context.Context, _ *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return &dynamodb.QueryOutput{Items: f.queryItems}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deleteInputs = append(f.deleteInputs, in)
	return &dynamodb.DeleteItemOutput{}, nil
}

func newTestStore(client API) *Store {
	return NewStore(client, DefaultRegistry(), logger.NewNop())
}

func TestStorePut_StampsTimestampAndPartitionKeys(t *testing.T) {
	fake := &fakeDynamo{}
	store := newTestStore(fake)

	err := store.Put(context.Background(), EntityAccount, Document{
		"id":    "abc123",
		"email": "a@example.com",
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(fake.putInputs) != 1 {
		t.Fatalf("expected one put, got %d", len(fake.putInputs))
	}

	in := fake.putInputs[0]
	if *in.TableName != "accounts" {
		t.Fatalf("table = %q", *in.TableName)
	}
	if stringAttr(in.Item, "partitionKey") != "abc123" {
		t.Fatalf("partitionKey not mirrored: %v", in.Item["partitionKey"])
	}
	if stringAttr(in.Item, "Id") != "abc123" {
		t.Fatalf("Id alias not mirrored: %v", in.Item["Id"])
	}
	if stringAttr(in.Item, "_ts") == "" {
		t.Fatalf("expected managed _ts attribute")
	}
}

func TestStorePut_CompassTrackingPartitionsOnAxis(t *testing.T) {
	fake := &fakeDynamo{}
	store := newTestStore(fake)

	err := store.Put(context.Background(), EntityCompassTracking, Document{
		"id":         "tracking-1",
		"axis":       "honesty",
		"sampleSize": 12,
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	item := fake.putInputs[0].Item
	if stringAttr(item, "PartitionKeyAxis") != "honesty" {
		t.Fatalf("PartitionKeyAxis not mirrored from axis: %v", item["PartitionKeyAxis"])
	}
}

func TestStorePut_RequiresID(t *testing.T) {
	store := newTestStore(&fakeDynamo{})
	err := store.Put(context.Background(), EntityAccount, Document{"email": "a@example.com"})
	if !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestStorePut_RefusesUnsynchronizedPartition(t *testing.T) {
	store := newTestStore(&fakeDynamo{})
	// Session documents partition on accountId; without it the write
	// would land on an empty partition value.
	err := store.Put(context.Background(), EntityGameSession, Document{"id": "s-1"})
	if !errors.Is(err, ErrMissingPartitionValue) {
		t.Fatalf("expected ErrMissingPartitionValue, got %v", err)
	}
}

func TestStorePut_UnknownEntityType(t *testing.T) {
	store := newTestStore(&fakeDynamo{})
	err := store.Put(context.Background(), "mystery", Document{"id": "x"})
	if !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestStoreGet_NotFound(t *testing.T) {
	store := newTestStore(&fakeDynamo{})
	_, err := store.Get(context.Background(), EntityAccount, "missing", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreGet_DecodesDocument(t *testing.T) {
	fake := &fakeDynamo{getItem: map[string]ddbtypes.AttributeValue{
		"id":    &ddbtypes.AttributeValueMemberS{Value: "abc123"},
		"email": &ddbtypes.AttributeValueMemberS{Value: "a@example.com"},
	}}
	store := newTestStore(fake)

	doc, err := store.Get(context.Background(), EntityAccount, "abc123", "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc["email"] != "a@example.com" {
		t.Fatalf("unexpected document %v", doc)
	}
}

func TestStoreDelete_CompositeKeyNeedsPartitionValue(t *testing.T) {
	fake := &fakeDynamo{}
	store := newTestStore(fake)

	err := store.Delete(context.Background(), EntityGameSession, "s-1", "")
	if !errors.Is(err, ErrMissingPartitionValue) {
		t.Fatalf("expected ErrMissingPartitionValue, got %v", err)
	}

	if err := store.Delete(context.Background(), EntityGameSession, "s-1", "acct-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(fake.deleteInputs) != 1 {
		t.Fatalf("expected one delete, got %d", len(fake.deleteInputs))
	}
	key := fake.deleteInputs[0].Key
	if stringAttr(key, "accountId") != "acct-1" || stringAttr(key, "id") != "s-1" {
		t.Fatalf("unexpected composite key %v", key)
	}
}

func TestStoreDelete_IdentityKeyUsesIDAlone(t *testing.T) {
	fake := &fakeDynamo{}
	store := newTestStore(fake)

	if err := store.Delete(context.Background(), EntityCompassAxis, "axis-1", ""); err != nil {
		t.Fatalf("delete: %v", err)
	}
	key := fake.deleteInputs[0].Key
	if len(key) != 1 || stringAttr(key, "Id") != "axis-1" {
		t.Fatalf("unexpected identity key %v", key)
	}
}
