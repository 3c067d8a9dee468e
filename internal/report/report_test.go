package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sanctuary/internal/blob"
	"sanctuary/internal/core"
	"sanctuary/internal/intake"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func demoCensus(t *testing.T) Census {
	t.Helper()
	svc := core.NewService(nil)
	_, err := intake.Apply(context.Background(), svc, intake.Demo())
	require.NoError(t, err)
	return SnapshotAt(svc, fixedTime)
}

func TestSnapshotDemo(t *testing.T) {
	c := demoCensus(t)
	require.Equal(t, fixedTime, c.GeneratedAt)
	require.NotNil(t, c.Isolation)
	require.Equal(t, 20, c.Isolation.Capacity)
	require.Equal(t, 19, c.Isolation.Available)
	require.Equal(t, []string{"Spider"}, c.Isolation.Species)
	require.Len(t, c.Enclosures, 3)
	require.Equal(t, "Drill", c.Enclosures[0].Designation)
	require.Equal(t, 44, c.Enclosures[0].Available)
	require.Equal(t, "Emily", c.Enclosures[0].Occupants[0].Name)
	require.Equal(t, 5, c.Animals())
	require.Equal(t, []Ration{{"Eggs", 750}, {"Fruits", 1000}, {"Insects", 100}}, c.ShoppingList)
	require.Equal(t, 1850, c.TotalGrams)
}

func TestSnapshotEmptyService(t *testing.T) {
	c := SnapshotAt(core.NewService(nil), fixedTime)
	require.Nil(t, c.Isolation)
	require.Empty(t, c.Enclosures)
	require.Zero(t, c.Animals())

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, c))
	require.Equal(t, "Shopping List (in gms): {}\n", buf.String())
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, demoCensus(t), FormatText))
	want := `<---- Isolation ---->
Capacity = 20, Available = 19, Occupied = 1
Species: [Spider]
Kong (Spider) - Male - Eggs

<---- Enclosure 1 Sign Board (Drill) ---->
Capacity = 50, Available = 44
Species: [Drill]
Emily (Drill) - Female - Insects
Emma (Drill) - Female - Eggs

<---- Enclosure 2 Sign Board (Guereza) ---->
Capacity = 50, Available = 40
Species: [Guereza]
Drake (Guereza) - Male - Fruits

<---- Enclosure 3 Sign Board (Tamarin) ---->
Capacity = 50, Available = 40
Species: [Tamarin]
King (Tamarin) - Male - Fruits

Shopping List (in gms): {Eggs=750, Fruits=1000, Insects=100}
`
	require.Equal(t, want, buf.String())
}

func TestRenderTextEmptyUnits(t *testing.T) {
	svc := core.NewService(nil)
	ctx := context.Background()
	_, err := svc.CreateIsolation(ctx, 3)
	require.NoError(t, err)
	_, _, err = svc.CreateEnclosure(ctx, "North", 10, "Saki")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, SnapshotAt(svc, fixedTime)))
	out := buf.String()
	require.Contains(t, out, "Species: [No Species Found]\nNo Monkey in Isolation\n")
	require.Contains(t, out, "<---- North Sign Board (Saki) ---->\nCapacity = 10, Available = 10\nSpecies: [No Species Found]\nNo Monkey in Enclosure\n")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, demoCensus(t)))
	var decoded Census
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, demoCensus(t), decoded)
	require.Contains(t, buf.String(), `"daily_ration_g": 250`)
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, demoCensus(t)))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	require.Equal(t, csvHeader, rows[0])
	require.Equal(t, []string{"Isolation", "isolation", "", "Kong", "Spider", "Male", "Large", "22", "40", "Eggs", "10", "500"}, rows[1])
	require.Equal(t, []string{"Enclosure 1", "enclosure", "Drill", "Emily", "Drill", "Female", "Small", "12", "4", "Insects", "1", "100"}, rows[2])
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"json": FormatJSON, "CSV": FormatCSV, " text ": FormatText, "txt": FormatText} {
		got, err := ParseFormat(raw)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	require.Error(t, err)
	require.Error(t, Render(io.Discard, Census{}, "pdf"))
	require.Equal(t, "txt", FormatText.Extension())
	require.Equal(t, "text/csv", FormatCSV.ContentType())
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	pub := NewPublisher(store, "", WithIDGenerator(func() string { return "run-1" }))

	infos, err := pub.Publish(ctx, demoCensus(t))
	require.NoError(t, err)
	require.Len(t, infos, 3)
	require.Equal(t, "census/run-1/census.json", infos[0].Key)
	require.Equal(t, "census/run-1/census.csv", infos[1].Key)
	require.Equal(t, "census/run-1/census.txt", infos[2].Key)
	require.Equal(t, "application/json", infos[0].ContentType)
	require.Equal(t, "5", infos[0].Metadata["animals"])
	require.Equal(t, "2024-05-01T12:00:00Z", infos[0].Metadata["generated_at"])

	_, rc, err := store.Get(ctx, "census/run-1/census.txt")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	require.True(t, strings.HasPrefix(string(body), "<---- Isolation ---->"))

	infos, err = pub.Publish(ctx, demoCensus(t), FormatCSV)
	require.True(t, errors.Is(err, blob.ErrExists), "same run id must not overwrite: %v", err)
	require.Empty(t, infos)
}

func TestPublisherUsesUUIDRuns(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	pub := NewPublisher(store, "nightly")
	first, err := pub.Publish(ctx, demoCensus(t), FormatJSON)
	require.NoError(t, err)
	second, err := pub.Publish(ctx, demoCensus(t), FormatJSON)
	require.NoError(t, err)
	require.NotEqual(t, first[0].Key, second[0].Key)
	require.True(t, strings.HasPrefix(first[0].Key, "nightly/"))

	list, err := store.List(ctx, "nightly/")
	require.NoError(t, err)
	require.Len(t, list, 2)
}
