package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
	"kindra/pkg/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExport(t *testing.T, export Export) string {
	t.Helper()
	data, err := json.Marshal(export)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func sampleExport() Export {
	connectionID := uuid.NewString()
	now := time.Now().UTC()
	export := Export{
		Connections: []entities.ConnectionSnapshot{{
			ID:                connectionID,
			Name:              "Sam",
			RelationshipStage: valueobjects.RelationshipStage("dating"),
			CreatedAt:         now.AddDate(0, -1, 0),
		}},
	}
	for i := 0; i < 6; i++ {
		export.Moments = append(export.Moments, entities.MomentSnapshot{
			ID:           uuid.NewString(),
			ConnectionID: connectionID,
			Emoji:        "😊",
			Tags:         []string{"conversation"},
			CreatedAt:    now.Add(-time.Duration(i) * 24 * time.Hour),
		})
	}
	return export
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInsightsCommand(t *testing.T) {
	path := writeExport(t, sampleExport())

	out, err := run(t, "insights", "--file", path)
	require.NoError(t, err)

	var report struct {
		Insights    []json.RawMessage `json:"insights"`
		MomentCount int               `json:"momentCount"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 6, report.MomentCount)
	assert.NotNil(t, report.Insights)
}

func TestAskCommand(t *testing.T) {
	path := writeExport(t, sampleExport())

	out, err := run(t, "ask", "--file", path, "how", "can", "we", "communicate", "better?")
	require.NoError(t, err)

	var answer map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &answer))
	assert.Equal(t, "how can we communicate better?", answer["question"])
	assert.NotEmpty(t, answer["response"])
	assert.NotEmpty(t, answer["topic"])
}

func TestLoadExport_RejectsBadRecords(t *testing.T) {
	export := sampleExport()
	export.Moments[0].ConnectionID = uuid.NewString()
	export.Connections = append(export.Connections, entities.ConnectionSnapshot{ID: "not-a-uuid", Name: "X"})

	_, err := LoadExport(writeExport(t, export))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connections[1]")
	assert.Contains(t, err.Error(), "moments[0]")
}

func TestCommandsRequireFile(t *testing.T) {
	_, err := run(t, "insights")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	out, err := run(t, "token", "user-1", "--secret", "s3cret", "--issuer", "kindra-test")
	require.NoError(t, err)

	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "s3cret", Issuer: "kindra-test", Audience: []string{auth.DefaultAudience}})
	require.NoError(t, err)
	claims, err := validator.ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}
