package gcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

func newStubDocumentExtractor(process func(context.Context, *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error)) *DocumentExtractor {
	return &DocumentExtractor{
		processor: ProcessorName("lunara", "us", "ocr-1"),
		process:   process,
	}
}

func TestDocumentExtractorSendsGCSRequest(t *testing.T) {
	var captured *documentaipb.ProcessRequest
	extractor := newStubDocumentExtractor(func(_ context.Context, request *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
		captured = request
		return &documentaipb.ProcessResponse{Document: &documentaipb.Document{Text: "  TSH 2.1 mIU/L \n"}}, nil
	})

	text, err := extractor.ExtractText(context.Background(), "https://storage.googleapis.com/reports/medical-reports/1-scan.jpg", "image/jpg")
	if err != nil {
		t.Fatalf("ExtractText() unexpected error: %v", err)
	}
	if text != "TSH 2.1 mIU/L" {
		t.Fatalf("unexpected text %q", text)
	}
	if captured.GetName() != "projects/lunara/locations/us/processors/ocr-1" {
		t.Fatalf("unexpected processor name %q", captured.GetName())
	}
	document := captured.GetGcsDocument()
	if document.GetGcsUri() != "gs://reports/medical-reports/1-scan.jpg" || document.GetMimeType() != "image/jpeg" {
		t.Fatalf("unexpected gcs document %v", document)
	}
}

func TestDocumentExtractorErrors(t *testing.T) {
	failing := newStubDocumentExtractor(func(context.Context, *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
		return nil, errors.New("quota")
	})
	if _, err := failing.ExtractText(context.Background(), "gs://reports/a.pdf", "application/pdf"); err == nil || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("expected wrapped processor error, got %v", err)
	}

	empty := newStubDocumentExtractor(func(context.Context, *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
		return &documentaipb.ProcessResponse{}, nil
	})
	if _, err := empty.ExtractText(context.Background(), "gs://reports/a.pdf", "application/pdf"); err == nil {
		t.Fatal("expected error for empty document text")
	}
}

func TestProcessorNameRequiresAllParts(t *testing.T) {
	if got := ProcessorName("p", "", "x"); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
}

func TestDocumentExtractorMapsCustomBaseURL(t *testing.T) {
	var captured *documentaipb.ProcessRequest
	extractor := newStubDocumentExtractor(func(_ context.Context, request *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
		captured = request
		return &documentaipb.ProcessResponse{Document: &documentaipb.Document{Text: "LH 8"}}, nil
	})
	extractor.bucket = "reports"
	extractor.baseURL = "https://cdn.example.test/files"

	objectURL := PublicObjectURL("https://cdn.example.test/files/", "reports", "medical-reports/1-blood panel.pdf")
	if _, err := extractor.ExtractText(context.Background(), objectURL, "application/pdf"); err != nil {
		t.Fatalf("ExtractText() unexpected error: %v", err)
	}
	if got := captured.GetGcsDocument().GetGcsUri(); got != "gs://reports/medical-reports/1-blood panel.pdf" {
		t.Fatalf("unexpected gcs uri %q", got)
	}

	if _, err := extractor.ExtractText(context.Background(), "https://elsewhere.example.test/a.pdf", "application/pdf"); err == nil {
		t.Fatal("expected error for an unknown host")
	}
}
