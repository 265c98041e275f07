package remotesink

import (
	"os"
	"path/filepath"
	"testing"
)

const testProto = `
syntax = "proto3";
package funxycheck.diagnostics.v1;

message ReportRequest {
  string code = 1;
  string message = 2;
  string file = 3;
  int32 line = 4;
  int32 col = 5;
  int32 severity = 6;
  repeated string notes = 7;
}

message ReportResponse {}

service Collector {
  rpc Report(ReportRequest) returns (ReportResponse);
}
`

func writeTestProto(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "diagnostics.proto")
	if err := os.WriteFile(path, []byte(testProto), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSchemaFindsDeclaredMethod(t *testing.T) {
	path := writeTestProto(t)
	schema, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("unexpected error loading schema: %v", err)
	}
	if _, err := schema.findMethod("funxycheck.diagnostics.v1.Collector/Report"); err != nil {
		t.Fatalf("expected to find the Report method: %v", err)
	}
}

func TestLoadSchemaRejectsUnknownMethod(t *testing.T) {
	path := writeTestProto(t)
	schema, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("unexpected error loading schema: %v", err)
	}
	if _, err := schema.findMethod("funxycheck.diagnostics.v1.Collector/Nope"); err == nil {
		t.Fatalf("expected an error for an undeclared method")
	}
}

func TestDialRejectsUnknownReportMethod(t *testing.T) {
	path := writeTestProto(t)
	schema, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("unexpected error loading schema: %v", err)
	}
	if _, err := Dial("localhost:0", schema, "funxycheck.diagnostics.v1.Collector/Nope"); err == nil {
		t.Fatalf("expected Dial to reject a method not declared in the schema")
	}
}
