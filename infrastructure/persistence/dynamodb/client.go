package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of the DynamoDB client the repositories use.
// *dynamodb.Client satisfies it.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Entity types stored in the EntityType attribute
const (
	entityMoment     = "MOMENT"
	entityConnection = "CONNECTION"
	entityProfile    = "PROFILE"
	entitySocket     = "SOCKET"
)

// sortableTimeLayout is RFC3339 with a fixed nine-digit fraction so sort
// keys order lexicographically by time
const sortableTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func userPK(userID string) string { return "USER#" + userID }

func momentSK(createdAt time.Time, momentID string) string {
	return fmt.Sprintf("MOMENT#%s#%s", createdAt.UTC().Format(sortableTimeLayout), momentID)
}

// momentSKUpperBound sorts after every MOMENT# key
const momentSKUpperBound = "MOMENT$"

func momentSKLowerBound(since time.Time) string {
	return "MOMENT#" + since.UTC().Format(sortableTimeLayout)
}

func momentGSI1PK(momentID string) string         { return "MOMENT#" + momentID }
func connectionSK(connectionID string) string     { return "CONNECTION#" + connectionID }
func connectionGSI1PK(connectionID string) string { return "CONNECTION#" + connectionID }
func socketPK(socketID string) string             { return "SOCKET#" + socketID }

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
