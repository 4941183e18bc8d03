package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/educloud-dashboard/internal/billing"
	"github.com/SAP-F-2025/educloud-dashboard/internal/repositories"
)

const tenantsSheet = "Tenants"

var tenantExportHeader = []interface{}{
	"Tenant ID", "Name", "Subdomain", "Plan", "Billing Status",
	"Students", "Max Students", "Utilization %", "Monthly Cost", "Next Billing Date",
}

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportTenants writes an xlsx workbook with one row per tenant.
func (s *reportService) ExportTenants(ctx context.Context, w io.Writer) error {
	tenants, _, err := s.repo.Tenant().List(ctx, repositories.TenantFilters{
		Limit:     -1,
		SortBy:    "name",
		SortOrder: "asc",
	})
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WarnContext(ctx, "Failed to close workbook", "error", err)
		}
	}()

	idx, err := f.NewSheet(tenantsSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SetSheetRow(tenantsSheet, "A1", &tenantExportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, t := range tenants {
		sub := billing.Derive(t)
		row := []interface{}{
			t.ID, t.Name, t.Subdomain, string(sub.CurrentPlan), string(sub.Status),
			sub.StudentsCount, sub.MaxStudents, sub.Utilization, sub.MonthlyCost, sub.NextBillingDate,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(tenantsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "Tenant export written", "tenants", len(tenants))
	return nil
}
