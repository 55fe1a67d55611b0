// Package report produces a best-effort analytical summary of the recorded
// distributions via an external text-generation service. Generation failures
// never propagate; every non-success path maps to a fixed fallback string.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/pkg/persiandate"
	"github.com/tozikala/backend/repository"
)

// DefaultWindow bounds how many of the most recent records are summarized.
const DefaultWindow = 50

const (
	// FallbackEmptyText is returned when the service answers without text.
	FallbackEmptyText = "خطا در تولید گزارش."
	// FallbackFailure is returned for any transport or service failure.
	FallbackFailure = "امکان تحلیل هوشمند در حال حاضر وجود ندارد."
)

const promptTemplate = `من یک لیست از توزیع چندین نوع کالا دارم. در مجموع %d تراکنش ثبت شده است.
داده‌ها: %s.
لطفاً یک گزارش تحلیلی کوتاه فارسی ارائه بده:
۱. محبوب‌ترین کالاها یا کالاهایی که بیشترین توزیع را داشته‌اند.
۲. تحلیل زمانی توزیع.
۳. پیشنهاد برای موجودی انبار بر اساس روند فعلی.`

// TextGenerator abstracts the external generation service.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type recordSummary struct {
	Product string `json:"product"`
	Time    int    `json:"time"`
	Date    string `json:"date"`
}

type UseCase struct {
	records   repository.RecordRepository
	generator TextGenerator
	window    int
	logger    *zap.Logger

	// busy mirrors the disabled-trigger guard of the operator UI: only one
	// generation may be pending at a time.
	busy sync.Mutex
}

func New(records repository.RecordRepository, generator TextGenerator, window int, logger *zap.Logger) *UseCase {
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		records:   records,
		generator: generator,
		window:    window,
		logger:    logger,
	}
}

// Generate builds the bounded summary prompt and returns the service's text.
// It errors only when there is nothing to analyze or a generation is already
// pending; the result for every other failure is a fallback string.
func (uc *UseCase) Generate(ctx context.Context) (string, error) {
	records, err := uc.records.GetAll(ctx)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", domain.ErrNoRecords
	}

	if !uc.busy.TryLock() {
		return "", domain.ErrReportInProgress
	}
	defer uc.busy.Unlock()

	prompt, err := uc.buildPrompt(records)
	if err != nil {
		return "", err
	}

	text, err := uc.generator.GenerateText(ctx, prompt)
	if err != nil {
		uc.logger.Warn("report generation failed", zap.Error(err))
		return FallbackFailure, nil
	}
	if text == "" {
		return FallbackEmptyText, nil
	}
	return text, nil
}

func (uc *UseCase) buildPrompt(records []domain.DistributionRecord) (string, error) {
	recent := records
	if len(recent) > uc.window {
		recent = recent[len(recent)-uc.window:]
	}

	summaries := make([]recordSummary, 0, len(recent))
	for _, rec := range recent {
		ts := rec.Time()
		summaries = append(summaries, recordSummary{
			Product: rec.ProductName,
			Time:    ts.Hour(),
			Date:    persiandate.Format(ts),
		})
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(promptTemplate, len(records), data), nil
}
