package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/phoenixvc/mystira-backend/internal/pkg/logger"
)

// API is the slice of the DynamoDB client the store uses.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Document is the canonical wire form: a decoded JSON object. The outbox
// stores JSON snapshots and the replay path hands them here unchanged, so
// there is exactly one deserialization step between the ledger and the
// container.
type Document = map[string]interface{}

// Store is the document-store write/read pipeline: marshal, stamp managed
// fields, synchronize partition keys, then issue the call.
type Store struct {
	client   API
	registry *Registry
	log      *logger.Logger
}

func NewStore(client API, registry *Registry, baseLog *logger.Logger) *Store {
	return &Store{
		client:   client,
		registry: registry,
		log:      baseLog.With("service", "DocStore"),
	}
}

func (s *Store) Registry() *Registry { return s.registry }

// Put writes one document. The reserved lowercase "id" member must be
// present; the partition attribute must be resolvable after
// synchronization or the write is refused rather than orphaned into the
// wrong partition.
func (s *Store) Put(ctx context.Context, entityType string, doc Document) error {
	route, err := s.registry.RouteFor(entityType)
	if err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return fmt.Errorf("docstore: marshal %s document: %w", entityType, err)
	}
	if stringAttr(item, "id") == "" {
		return fmt.Errorf("%w (entity type %s)", ErrMissingID, entityType)
	}

	item["_ts"] = &ddbtypes.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)}
	SyncPartitionKeys(item, route)
	if stringAttr(item, route.PartitionAttr) == "" {
		return fmt.Errorf("%w (entity type %s, attribute %s)", ErrMissingPartitionValue, entityType, route.PartitionAttr)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(route.Table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("docstore: put %s: %w", entityType, err)
	}
	return nil
}

// Get performs a point read. partitionValue is ignored for containers
// keyed by identity alone.
func (s *Store) Get(ctx context.Context, entityType, id, partitionValue string) (Document, error) {
	route, err := s.registry.RouteFor(entityType)
	if err != nil {
		return nil, err
	}
	key, err := routeKey(route, id, partitionValue)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(route.Table),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("docstore: get %s %s: %w", entityType, id, err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, entityType, id)
	}

	var doc Document
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, fmt.Errorf("docstore: unmarshal %s %s: %w", entityType, id, err)
	}
	return doc, nil
}

// QueryByPartition lists documents sharing one partition value, bounded by
// limit when limit > 0.
func (s *Store) QueryByPartition(ctx context.Context, entityType, partitionValue string, limit int32) ([]Document, error) {
	route, err := s.registry.RouteFor(entityType)
	if err != nil {
		return nil, err
	}

	in := &dynamodb.QueryInput{
		TableName:              aws.String(route.Table),
		KeyConditionExpression: aws.String("#pk = :pv"),
		ExpressionAttributeNames: map[string]string{
			"#pk": route.PartitionAttr,
		},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pv": &ddbtypes.AttributeValueMemberS{Value: partitionValue},
		},
	}
	if limit > 0 {
		in.Limit = aws.Int32(limit)
	}

	out, err := s.client.Query(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("docstore: query %s by partition: %w", entityType, err)
	}

	docs := make([]Document, 0, len(out.Items))
	for _, item := range out.Items {
		var doc Document
		if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
			return nil, fmt.Errorf("docstore: unmarshal %s query result: %w", entityType, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Delete removes one document; deleting an absent document is a no-op.
func (s *Store) Delete(ctx context.Context, entityType, id, partitionValue string) error {
	route, err := s.registry.RouteFor(entityType)
	if err != nil {
		return err
	}
	key, err := routeKey(route, id, partitionValue)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(route.Table),
		Key:       key,
	}); err != nil {
		return fmt.Errorf("docstore: delete %s %s: %w", entityType, id, err)
	}
	return nil
}

// routeKey builds the container key. Identity-partitioned containers key
// on the partition attribute alone (its value is the id); containers
// partitioned on another field use a composite (partition, id) key.
func routeKey(route Route, id, partitionValue string) (map[string]ddbtypes.AttributeValue, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if !route.composite() {
		return map[string]ddbtypes.AttributeValue{
			route.PartitionAttr: &ddbtypes.AttributeValueMemberS{Value: id},
		}, nil
	}
	if partitionValue == "" {
		return nil, fmt.Errorf("%w (entity type %s)", ErrMissingPartitionValue, route.EntityType)
	}
	return map[string]ddbtypes.AttributeValue{
		route.PartitionAttr: &ddbtypes.AttributeValueMemberS{Value: partitionValue},
		"id":                &ddbtypes.AttributeValueMemberS{Value: id},
	}, nil
}
