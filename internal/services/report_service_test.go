package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportTenants(t *testing.T) {
	svc := NewReportService(newFakeRepo(platformTenants()...), testLogger())

	var buf bytes.Buffer
	if err := svc.ExportTenants(context.Background(), &buf); err != nil {
		t.Fatalf("ExportTenants: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(tenantsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want header + 4", len(rows))
	}
	if rows[0][0] != "Tenant ID" || rows[0][8] != "Monthly Cost" {
		t.Errorf("header = %v", rows[0])
	}

	// sorted by name
	if rows[1][1] != "Oak Hill High School" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[1][3] != "enterprise" || rows[1][8] != "24000" {
		t.Errorf("oak hill row = %v", rows[1])
	}
}

func TestExportTenantsListFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("boom")

	var buf bytes.Buffer
	if err := NewReportService(repo, testLogger()).ExportTenants(context.Background(), &buf); err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Error("partial workbook written")
	}
}
