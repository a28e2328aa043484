package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/imessage-tools/imessage-session/testutil"
)

func TestDiagnoseCommand(t *testing.T) {
	path := seedStore(t)

	stdout, _, err := runCommand(t, "diagnose", "--db", path)
	if err != nil {
		t.Fatalf("diagnose error = %v", err)
	}
	if !strings.Contains(stdout, "Messages: 3") {
		t.Errorf("diagnose output missing message count:\n%s", stdout)
	}
	if !strings.Contains(stdout, "All messages are associated with a chat") {
		t.Errorf("diagnose output missing chat association check:\n%s", stdout)
	}
}

func TestDiagnoseCommand_DanglingMessages(t *testing.T) {
	db, path := testutil.CreateTestStoreFile(t)
	testutil.InsertMessage(t, db, testutil.MessageRow{
		RowID: 1, GUID: "ORPHAN-1",
		Text: testutil.Str("no chat join"),
		Date: 674526582885055488,
	})

	stdout, _, err := runCommand(t, "diagnose", "--db", path)
	if err != nil {
		t.Fatalf("diagnose error = %v", err)
	}
	if !strings.Contains(stdout, "not associated with a chat: 1") {
		t.Errorf("diagnose output missing dangling count:\n%s", stdout)
	}
}

func TestDiagnoseCommand_MissingStore(t *testing.T) {
	_, _, err := runCommand(t, "diagnose", "--db", filepath.Join(t.TempDir(), "missing.db"))
	if err == nil {
		t.Error("diagnose against missing store should error")
	}
}
