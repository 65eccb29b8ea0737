package payroll

import (
	"context"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
)

// RequestHook may rewrite a generate request or veto it by returning an
// error. Request hooks run in registration order before any employee is read.
type RequestHook func(ctx context.Context, req GenerateRequest) (GenerateRequest, error)

// PreviewHook post-processes a generated preview. Hooks run in registration
// order and must not write.
type PreviewHook func(ctx context.Context, req GenerateRequest, preview Preview) (Preview, error)

// ExportFile is a rendered payroll sheet.
type ExportFile struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

type PayrollService interface {
	Generate(ctx context.Context, req GenerateRequest) (Preview, error)
	Save(ctx context.Context, req SaveRequest) (record.Row, error)
	UpdateSheet(ctx context.Context, id int64, req SaveRequest) (record.Row, error)
	UpdateStatus(ctx context.Context, id int64, req StatusRequest) (record.Row, error)

	List(ctx context.Context, opts record.Options) ([]record.Row, int64, error)
	Get(ctx context.Context, id int64) (Sheet, error)
	Report(ctx context.Context, req ReportRequest) ([]record.Row, error)
	Ledger(ctx context.Context, req LedgerRequest, opts record.Options) ([]record.Row, int64, error)
	Payslips(ctx context.Context, opts record.Options) ([]record.Row, int64, error)
	Export(ctx context.Context, id int64) (ExportFile, error)
}
