package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwTypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kindra/domain/events"
	"kindra/domain/insights"
	"kindra/infrastructure/persistence/memory"
)

type fakeManagementAPI struct {
	posted map[string][]byte
	errs   map[string]error
}

func (f *fakeManagementAPI) PostToConnection(_ context.Context, in *apigatewaymanagementapi.PostToConnectionInput, _ ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error) {
	id := aws.ToString(in.ConnectionId)
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	if f.posted == nil {
		f.posted = make(map[string][]byte)
	}
	f.posted[id] = in.Data
	return &apigatewaymanagementapi.PostToConnectionOutput{}, nil
}

func TestNotify_DeliversAndDropsGoneSockets(t *testing.T) {
	ctx := context.Background()
	sockets := memory.NewSocketStore()
	require.NoError(t, sockets.Add(ctx, "live", "user-1"))
	require.NoError(t, sockets.Add(ctx, "stale", "user-1"))
	require.NoError(t, sockets.Add(ctx, "other", "user-2"))

	api := &fakeManagementAPI{errs: map[string]error{"stale": &apigwTypes.GoneException{}}}
	n := NewNotifier(api, sockets, zap.NewNop())

	items := []insights.Insight{{Title: "Positive Emotional Momentum", Type: insights.TypePositive}}
	require.NoError(t, n.Notify(ctx, "user-1", items))

	require.Contains(t, api.posted, "live")
	assert.NotContains(t, api.posted, "other")

	var msg struct {
		Type string `json:"type"`
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(api.posted["live"], &msg))
	assert.Equal(t, events.TypeInsightsRefreshed, msg.Type)
	assert.Equal(t, 1, msg.Data.Count)

	remaining, err := sockets.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, remaining)
}

func TestSend_AllFailuresIsAnError(t *testing.T) {
	ctx := context.Background()
	sockets := memory.NewSocketStore()
	require.NoError(t, sockets.Add(ctx, "a", "user-1"))

	api := &fakeManagementAPI{errs: map[string]error{"a": errors.New("throttled")}}
	n := NewNotifier(api, sockets, zap.NewNop())

	assert.Error(t, n.Send(ctx, "user-1", "ping", nil))
}

func TestSend_NoSocketsIsNoop(t *testing.T) {
	n := NewNotifier(&fakeManagementAPI{}, memory.NewSocketStore(), zap.NewNop())
	assert.NoError(t, n.Send(context.Background(), "user-1", "ping", nil))
}
