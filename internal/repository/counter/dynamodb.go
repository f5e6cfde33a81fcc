package counter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// countAttribute is the numeric attribute accumulating the deltas.
const countAttribute = "count"

// DynamoAPI is the subset of the table client the store uses.
// Narrowing the dependency lets tests inject a fake.
type DynamoAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput,
		optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput,
		optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoDB persists the counter as a single row in a key-value table.
type DynamoDB struct {
	// client performs the table operations.
	client DynamoAPI
	// table is the table holding the counter row.
	table string
	// keyColumn is the primary key column of the table.
	keyColumn string
}

// NewDynamoDB creates a store bound to the provided table and key column.
func NewDynamoDB(client DynamoAPI, table, keyColumn string) *DynamoDB {
	return &DynamoDB{
		client:    client,
		table:     table,
		keyColumn: keyColumn,
	}
}

// Add applies the delta with a single atomic ADD update expression.
// The table serializes concurrent invocations; the row is created at the
// delta value when absent.
func (s *DynamoDB) Add(ctx context.Context, delta int64) (int64, error) {
	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			s.keyColumn: &types.AttributeValueMemberS{Value: CounterKey},
		},
		UpdateExpression: aws.String("ADD #count :delta"),
		ExpressionAttributeNames: map[string]string{
			"#count": countAttribute,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta": &types.AttributeValueMemberN{Value: strconv.FormatInt(delta, 10)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("add %d to counter: %w", delta, err)
	}

	return numericAttribute(out.Attributes)
}

// Value reads the current counter without mutating it.
// A missing row reads as zero.
func (s *DynamoDB) Value(ctx context.Context) (int64, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			s.keyColumn: &types.AttributeValueMemberS{Value: CounterKey},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}

	if out.Item == nil {
		return 0, nil
	}

	return numericAttribute(out.Item)
}

// numericAttribute extracts the counter value from a returned item.
func numericAttribute(item map[string]types.AttributeValue) (int64, error) {
	attr, ok := item[countAttribute]
	if !ok {
		return 0, nil
	}

	number, ok := attr.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("counter attribute %q is not numeric", countAttribute)
	}

	value, err := strconv.ParseInt(number.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter value %q: %w", number.Value, err)
	}

	return value, nil
}
