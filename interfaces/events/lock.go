package events

import (
	"context"
	"errors"
	"time"

	"kindra/infrastructure/persistence/dynamodb"
)

// DynamoDBLock adapts the DynamoDB lock table to a LockFunc. A nil lock
// returns nil so the handler runs unlocked.
func DynamoDBLock(dl *dynamodb.DistributedLock) LockFunc {
	if dl == nil {
		return nil
	}
	return func(ctx context.Context, userID, owner string, ttl time.Duration) (func(context.Context) error, error) {
		lock, err := dl.Acquire(ctx, dynamodb.RefreshLockResource(userID), owner, ttl)
		if errors.Is(err, dynamodb.ErrLockHeld) {
			return nil, ErrLocked
		}
		if err != nil {
			return nil, err
		}
		return lock.Release, nil
	}
}
