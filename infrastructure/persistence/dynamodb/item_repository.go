package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"shoplist-backend/application/ports"
	"shoplist-backend/domain/item"
	pkgerrors "shoplist-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemRepository implements the ItemRepository port using DynamoDB.
//
// Single-table key scheme: PK = USER#<ownerId>, SK = ITEM#<itemId>. The owner
// identifier is baked into the partition key of every request, so a query can
// only ever see one tenant's partition.
type ItemRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ItemRepository {
	return &ItemRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// itemRecord represents the DynamoDB item structure for a list entry
type itemRecord struct {
	PK         string  `dynamodbav:"PK"`
	SK         string  `dynamodbav:"SK"`
	EntityType string  `dynamodbav:"EntityType"`
	OwnerID    string  `dynamodbav:"OwnerID"`
	ItemID     string  `dynamodbav:"ItemID"`
	ItemName   string  `dynamodbav:"ItemName"`
	Quantity   float64 `dynamodbav:"Quantity"`
	Checked    bool    `dynamodbav:"Checked"`
	CreatedAt  string  `dynamodbav:"CreatedAt"`
	ExpireAt   int64   `dynamodbav:"ExpireAt,omitempty"`
}

func ownerKey(ownerID string) string {
	return fmt.Sprintf("USER#%s", ownerID)
}

func itemKey(itemID string) string {
	return fmt.Sprintf("ITEM#%s", itemID)
}

func recordFromItem(it *item.Item) itemRecord {
	return itemRecord{
		PK:         ownerKey(it.OwnerID),
		SK:         itemKey(it.ItemID),
		EntityType: "ITEM",
		OwnerID:    it.OwnerID,
		ItemID:     it.ItemID,
		ItemName:   it.ItemName,
		Quantity:   it.Quantity,
		Checked:    it.Checked,
		CreatedAt:  it.CreatedAt,
		ExpireAt:   it.ExpireAt,
	}
}

func (rec itemRecord) toItem() item.Item {
	return item.Item{
		OwnerID:   rec.OwnerID,
		ItemID:    rec.ItemID,
		ItemName:  rec.ItemName,
		Quantity:  rec.Quantity,
		Checked:   rec.Checked,
		CreatedAt: rec.CreatedAt,
		ExpireAt:  rec.ExpireAt,
	}
}

// Save inserts a new item, assigning its identifier first. The identifier is
// generated here, not accepted from the caller, so keys can neither collide
// nor be spoofed across owners.
func (r *ItemRepository) Save(ctx context.Context, it *item.Item) error {
	it.ItemID = uuid.New().String()

	av, err := attributevalue.MarshalMap(recordFromItem(it))
	if err != nil {
		return pkgerrors.NewDatabaseError("save item", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return r.storeError("save item", err)
	}

	r.logger.Debug("Item saved",
		zap.String("ownerID", it.OwnerID),
		zap.String("itemID", it.ItemID),
	)

	return nil
}

// ListByOwner returns all items for an owner, unordered. The query follows
// pagination keys until the partition is exhausted.
func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]item.Item, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(ownerKey(ownerID))).
		And(expression.Key("SK").BeginsWith("ITEM#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list items", err)
	}

	items := make([]item.Item, 0)
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, r.storeError("list items", err)
		}

		for _, raw := range result.Items {
			var rec itemRecord
			if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
				r.logger.Warn("Failed to unmarshal item record", zap.Error(err))
				continue
			}
			items = append(items, rec.toItem())
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return items, nil
}

// ListCheckedIDs returns the identifiers of the owner's checked items,
// projecting only the ItemID attribute.
func (r *ItemRepository) ListCheckedIDs(ctx context.Context, ownerID string) ([]string, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(ownerKey(ownerID))).
		And(expression.Key("SK").BeginsWith("ITEM#"))
	filter := expression.Name("Checked").Equal(expression.Value(true))
	projection := expression.NamesList(expression.Name("ItemID"))

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithFilter(filter).
		WithProjection(projection).
		Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list checked items", err)
	}

	ids := make([]string, 0)
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ProjectionExpression:      expr.Projection(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, r.storeError("list checked items", err)
		}

		for _, raw := range result.Items {
			var rec itemRecord
			if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
				r.logger.Warn("Failed to unmarshal item record", zap.Error(err))
				continue
			}
			ids = append(ids, rec.ItemID)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return ids, nil
}

// UpdateChecked conditionally updates the checked flag of one item and
// returns the post-update record. The condition fails when the key does not
// exist, which maps to a not-found error rather than silently upserting.
func (r *ItemRepository) UpdateChecked(ctx context.Context, ownerID, itemID string, checked bool) (*item.Item, error) {
	update := expression.Set(expression.Name("Checked"), expression.Value(checked))
	condition := expression.AttributeExists(expression.Name("PK"))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(condition).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("update checked", err)
	}

	result, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerKey(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: itemKey(itemID)},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, pkgerrors.NewNotFoundError("item")
		}
		return nil, r.storeError("update checked", err)
	}

	var rec itemRecord
	if err := attributevalue.UnmarshalMap(result.Attributes, &rec); err != nil {
		return nil, pkgerrors.NewDatabaseError("update checked", err)
	}

	updated := rec.toItem()
	return &updated, nil
}

// Delete removes one item. DynamoDB deletes are idempotent, so an absent key
// is not an error.
func (r *ItemRepository) Delete(ctx context.Context, ownerID, itemID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerKey(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: itemKey(itemID)},
		},
	})
	if err != nil {
		return r.storeError("delete item", err)
	}

	return nil
}

// storeError wraps a backend failure, logging the service error code when the
// SDK exposes one.
func (r *ItemRepository) storeError(operation string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		r.logger.Error("DynamoDB call failed",
			zap.String("operation", operation),
			zap.String("errorCode", apiErr.ErrorCode()),
			zap.Error(err),
		)
	} else {
		r.logger.Error("DynamoDB call failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
	return pkgerrors.NewDatabaseError(operation, err)
}
