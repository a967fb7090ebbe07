package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/terraincognita07/lunara/internal/logger"
)

const (
	MaxReportSize         = 10 * 1024 * 1024
	ReportObjectPrefix    = "medical-reports/"
	DefaultReportModel    = "gemini-2.0-flash"
	defaultReportSettle   = time.Second
	maxReportFileNameSize = 120
)

var (
	ErrInvalidReportType     = errors.New("invalid file type")
	ErrReportTooLarge        = errors.New("file too large")
	ErrEmptyReport           = errors.New("file is empty")
	ErrReportUploadFailed    = errors.New("file upload failed")
	ErrReportAnalysisOffline = errors.New("report analysis unavailable")
)

var allowedReportTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/jpg":       true,
}

// ReportUploader stores a file and returns a URL it can be retrieved from.
type ReportUploader interface {
	Upload(ctx context.Context, objectName string, contentType string, body io.Reader) (string, error)
}

// TextExtractor returns the text of a previously uploaded document.
type TextExtractor interface {
	ExtractText(ctx context.Context, url string, mimeType string) (string, error)
}

// TextGenerator returns model output for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, model string) (string, error)
}

type ReportFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ReportAnalysis struct {
	FileName    string `json:"file_name"`
	URL         string `json:"url"`
	Extracted   bool   `json:"extracted"`
	Limited     bool   `json:"limited"`
	Analysis    string `json:"analysis"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ReportServiceConfig struct {
	Model       string
	Retry       RetryPolicy
	SettleDelay time.Duration
}

type ReportService struct {
	uploader  ReportUploader
	extractor TextExtractor
	generator TextGenerator
	model     string
	retry     RetryPolicy
	settle    time.Duration
	now       func() time.Time
	log       *logger.Logger
}

func NewReportService(uploader ReportUploader, extractor TextExtractor, generator TextGenerator, config ReportServiceConfig, log *logger.Logger) *ReportService {
	if log == nil {
		log = logger.Nop()
	}
	if strings.TrimSpace(config.Model) == "" {
		config.Model = DefaultReportModel
	}
	if config.Retry.Attempts <= 0 {
		config.Retry = DefaultRetryPolicy()
	}
	if config.SettleDelay < 0 {
		config.SettleDelay = defaultReportSettle
	}
	return &ReportService{
		uploader:  uploader,
		extractor: extractor,
		generator: generator,
		model:     config.Model,
		retry:     config.Retry,
		settle:    config.SettleDelay,
		now:       time.Now,
		log:       log.With("service", "ReportService"),
	}
}

func (service *ReportService) Enabled() bool {
	return service != nil && service.uploader != nil && service.extractor != nil && service.generator != nil
}

func ValidateReportFile(file ReportFile) error {
	contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
	if separator := strings.Index(contentType, ";"); separator >= 0 {
		contentType = strings.TrimSpace(contentType[:separator])
	}
	if !allowedReportTypes[contentType] {
		return ErrInvalidReportType
	}
	if file.Size > MaxReportSize {
		return ErrReportTooLarge
	}
	if file.Size <= 0 {
		return ErrEmptyReport
	}
	return nil
}

// Analyze uploads a report, extracts its text and asks the model for a
// summary. Extraction and generation fall back to canned text after the
// retry policy is exhausted; only validation and upload errors are returned.
func (service *ReportService) Analyze(ctx context.Context, file ReportFile) (ReportAnalysis, error) {
	if !service.Enabled() {
		return ReportAnalysis{}, ErrReportAnalysisOffline
	}
	if err := ValidateReportFile(file); err != nil {
		return ReportAnalysis{}, err
	}

	fileName := sanitizeReportFileName(file.Name)
	objectName := fmt.Sprintf("%s%d-%s", ReportObjectPrefix, service.now().UnixMilli(), fileName)
	log := service.log.With("object", objectName)

	url, err := service.uploader.Upload(ctx, objectName, file.ContentType, file.Body)
	if err != nil {
		log.Error("report upload failed", "error", err)
		return ReportAnalysis{}, fmt.Errorf("%w: %v", ErrReportUploadFailed, err)
	}
	log.Info("report uploaded", "url", url)

	if err := sleepContext(ctx, service.settle); err != nil {
		return ReportAnalysis{}, err
	}

	extractedText := ""
	extractErr := service.retry.Do(ctx, func(ctx context.Context, attempt int) error {
		text, err := service.extractor.ExtractText(ctx, url, file.ContentType)
		if err != nil {
			log.Warn("text extraction attempt failed", "attempt", attempt, "max_attempts", service.retry.Attempts, "error", err)
			return err
		}
		extractedText = text
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ReportAnalysis{}, ctxErr
	}

	extracted := extractErr == nil
	prompt := ""
	if extracted {
		prompt = reportAnalysisPrompt(extractedText)
	} else {
		log.Warn("text extraction exhausted, using fallback analysis", "error", extractErr)
		prompt = reportGuidancePrompt(ExtractionFallbackText(ReportFile{Name: fileName, ContentType: file.ContentType, Size: file.Size}))
	}

	analysis := ""
	generateErr := service.retry.Do(ctx, func(ctx context.Context, attempt int) error {
		text, err := service.generator.GenerateText(ctx, prompt, service.model)
		if err != nil {
			log.Warn("analysis generation attempt failed", "attempt", attempt, "error", err)
			return err
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("empty model response")
		}
		analysis = text
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ReportAnalysis{}, ctxErr
	}
	if generateErr != nil {
		log.Warn("analysis generation exhausted, using canned guidance", "error", generateErr)
		analysis = cannedReportGuidance(fileName)
	}

	result := ReportAnalysis{
		FileName:  fileName,
		URL:       url,
		Extracted: extracted,
		Analysis:  analysis,
		Limited:   !extracted || generateErr != nil,
	}
	if !result.Limited {
		result.Title = "Analysis complete!"
		result.Description = "Your medical report has been analyzed successfully."
	} else {
		result.Title = "Analysis complete (with limitations)"
		result.Description = "We provided general guidance since text extraction had issues. Try re-uploading if needed."
		if extracted {
			result.Description = "We provided general guidance since the analysis service was unavailable. Try again later."
		}
	}
	return result, nil
}

// ExtractionFallbackText describes why a file could not be read. It is shown
// to the model in place of the report text.
func ExtractionFallbackText(file ReportFile) string {
	return fmt.Sprintf(`Unable to extract text from the uploaded file. This could be due to:
- The file format may not be supported for text extraction
- The file may be an image that requires OCR processing
- The file may be password protected or corrupted

File details:
- Name: %s
- Type: %s
- Size: %.2f MB`, file.Name, file.ContentType, float64(file.Size)/1024/1024)
}

func sanitizeReportFileName(raw string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "report"
	}

	var builder strings.Builder
	for _, char := range name {
		switch {
		case char >= 'a' && char <= 'z', char >= 'A' && char <= 'Z', char >= '0' && char <= '9':
			builder.WriteRune(char)
		case char == '.', char == '-', char == '_':
			builder.WriteRune(char)
		default:
			builder.WriteRune('_')
		}
	}

	sanitized := builder.String()
	if len(sanitized) > maxReportFileNameSize {
		sanitized = sanitized[len(sanitized)-maxReportFileNameSize:]
	}
	return sanitized
}

func reportAnalysisPrompt(reportText string) string {
	return `Analyze this medical report and extract hormone-related information. Focus on:
1. Hormone levels (estrogen, progesterone, testosterone, FSH, LH, etc.)
2. Thyroid function (TSH, T3, T4)
3. Any reproductive health indicators
4. Recommendations for hormonal health
5. Any signs of pre-menopause or hormonal imbalances

Medical report text:
` + reportText + `

Please provide a clear, easy-to-understand analysis in a friendly tone suitable for women aged 30-38.`
}

func reportGuidancePrompt(fallback string) string {
	return fmt.Sprintf(`I was unable to read the uploaded medical report.

%s

However, I can still provide you with general guidance about hormonal health tracking for women aged 30-38:

%s

Would you like to try uploading the file again or continue with daily symptom tracking?`, fallback, generalHormoneGuidance)
}

func cannedReportGuidance(fileName string) string {
	return fmt.Sprintf("We could not analyze %s right now. Here is some general guidance in the meantime.\n\n%s", fileName, generalHormoneGuidance)
}

const generalHormoneGuidance = `**Key Hormones to Monitor:**
- Estrogen (E2) - affects mood, energy, and reproductive health
- Progesterone - important for cycle regulation and mood stability
- Testosterone - influences energy, libido, and muscle mass
- FSH & LH - indicate ovarian function and approaching menopause
- Thyroid hormones (TSH, T3, T4) - regulate metabolism and energy

**Pre-Menopause Signs to Watch For:**
- Irregular menstrual cycles
- Changes in flow (heavier or lighter)
- Mood swings or increased anxiety
- Sleep disturbances
- Hot flashes or night sweats
- Changes in libido

**Next Steps:**
1. Try uploading the file again in a different format (PDF works best)
2. Ensure the file is not password protected
3. Consider taking a clear photo of paper reports if needed
4. Consult with your healthcare provider about these hormone levels`
