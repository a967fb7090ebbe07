package gcp

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/terraincognita07/lunara/internal/logger"
)

type DocumentConfig struct {
	ProjectID   string
	Location    string
	ProcessorID string

	// Bucket and PublicBaseURL let URLs served from a custom base be mapped
	// back to gs:// URIs.
	Bucket        string
	PublicBaseURL string
}

// DocumentExtractor reads report text with a Document AI OCR processor.
type DocumentExtractor struct {
	log       *logger.Logger
	client    *documentai.DocumentProcessorClient
	processor string
	bucket    string
	baseURL   string
	process   func(ctx context.Context, request *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error)
}

func NewDocumentExtractor(ctx context.Context, config DocumentConfig, log *logger.Logger) (*DocumentExtractor, error) {
	name := ProcessorName(config.ProjectID, config.Location, config.ProcessorID)
	if name == "" {
		return nil, fmt.Errorf("documentai project, location and processor are required")
	}
	if log == nil {
		log = logger.Nop()
	}

	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", strings.TrimSpace(config.Location))
	opts := append([]option.ClientOption{option.WithEndpoint(endpoint)}, ClientOptionsFromEnv()...)
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}

	extractor := &DocumentExtractor{
		log:       log.With("service", "DocumentExtractor"),
		client:    client,
		processor: name,
		bucket:    strings.TrimSpace(config.Bucket),
		baseURL:   strings.TrimRight(strings.TrimSpace(config.PublicBaseURL), "/"),
	}
	extractor.process = func(ctx context.Context, request *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
		return client.ProcessDocument(ctx, request)
	}
	extractor.log.Info("Document AI initialized", "endpoint", endpoint)
	return extractor, nil
}

func (extractor *DocumentExtractor) ExtractText(ctx context.Context, objectURL string, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	gcsURI, err := extractor.gcsURI(objectURL)
	if err != nil {
		return "", err
	}
	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}

	response, err := extractor.process(ctx, &documentaipb.ProcessRequest{
		Name: extractor.processor,
		Source: &documentaipb.ProcessRequest_GcsDocument{
			GcsDocument: &documentaipb.GcsDocument{
				GcsUri:   gcsURI,
				MimeType: mimeType,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("documentai ProcessDocument (gcs): %w", err)
	}

	text := strings.TrimSpace(response.GetDocument().GetText())
	if text == "" {
		return "", fmt.Errorf("documentai returned no text for %s", gcsURI)
	}
	return text, nil
}

func (extractor *DocumentExtractor) gcsURI(objectURL string) (string, error) {
	if extractor.bucket != "" && extractor.baseURL != "" && strings.HasPrefix(objectURL, extractor.baseURL+"/") {
		escaped := strings.TrimPrefix(objectURL, extractor.baseURL+"/")
		objectName, err := url.PathUnescape(escaped)
		if err != nil {
			return "", fmt.Errorf("parse object url: %w", err)
		}
		return "gs://" + extractor.bucket + "/" + objectName, nil
	}
	return GCSURIFromURL(objectURL)
}

func (extractor *DocumentExtractor) Close() error {
	if extractor == nil || extractor.client == nil {
		return nil
	}
	return extractor.client.Close()
}

func ProcessorName(project, location, processorID string) string {
	project = strings.TrimSpace(project)
	location = strings.TrimSpace(location)
	processorID = strings.TrimSpace(processorID)
	if project == "" || location == "" || processorID == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", project, location, processorID)
}
