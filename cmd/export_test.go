package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/imessage-tools/imessage-session/internal"
	"github.com/imessage-tools/imessage-session/testutil"
)

func seedStore(t *testing.T) string {
	t.Helper()
	db, path := testutil.CreateTestStoreFile(t)

	chat := 1
	testutil.InsertMessage(t, db, testutil.MessageRow{
		RowID: 1, GUID: "MSG-1",
		Text:   testutil.Str("Hello there"),
		Date:   674526582885055488,
		ChatID: &chat,
	})
	testutil.InsertMessage(t, db, testutil.MessageRow{
		RowID: 2, GUID: "MSG-2",
		Text:     testutil.Str("Hi yourself"),
		Date:     674526600000000000,
		IsFromMe: true,
		ChatID:   &chat,
	})
	testutil.InsertMessage(t, db, testutil.MessageRow{
		RowID: 3, GUID: "REACT-1",
		Date:                  674526610000000000,
		AssociatedMessageGUID: testutil.Str("p:0/MSG-1"),
		AssociatedMessageType: 2000,
		ChatID:                &chat,
	})
	return path
}

func TestExportCommand_InvalidFormat(t *testing.T) {
	path := seedStore(t)
	_, _, err := runCommand(t, "export", "--db", path, "--format", "invalid")
	if err == nil {
		t.Error("export with invalid format should error")
	}
}

func TestExportCommand_JSON(t *testing.T) {
	path := seedStore(t)
	outDir := t.TempDir()

	stdout, _, err := runCommand(t, "export", "--db", path, "--format", "json", "--output", outDir)
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if !strings.Contains(stdout, "Exported 2 messages") {
		t.Errorf("export output = %q, want mention of 2 messages", stdout)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "messages.json"))
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}
	var transcript internal.Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		t.Fatalf("export file is invalid JSON: %v", err)
	}
	if len(transcript.Messages) != 2 {
		t.Fatalf("exported message count = %d, want 2", len(transcript.Messages))
	}
	if transcript.Messages[0].GUID != "MSG-1" {
		t.Errorf("first exported GUID = %q, want MSG-1", transcript.Messages[0].GUID)
	}
	if len(transcript.Messages[0].Parts) != 1 || len(transcript.Messages[0].Parts[0].Reactions) != 1 {
		t.Errorf("MSG-1 should carry one folded reaction, got %+v", transcript.Messages[0].Parts)
	}
}

func TestExportCommand_Markdown(t *testing.T) {
	path := seedStore(t)
	outDir := t.TempDir()

	if _, _, err := runCommand(t, "export", "--db", path, "--format", "md", "--output", outDir); err != nil {
		t.Fatalf("export error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "messages.md"))
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}
	got := string(data)
	for _, want := range []string{"# Messages", "Hello there", "Hi yourself", "> Reactions: Loved"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown export missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestExportCommand_MissingStore(t *testing.T) {
	_, _, err := runCommand(t, "export", "--db", filepath.Join(t.TempDir(), "missing.db"))
	if err == nil {
		t.Error("export against missing store should error")
	}
}
