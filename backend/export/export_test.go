package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/xuri/excelize/v2"

	"github.com/ravigill3969/resource-tracker/backend/models"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func readRows(t *testing.T, body []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read rows of %s: %v", sheet, err)
	}
	return rows
}

func TestWaterWorkbook(t *testing.T) {
	created := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	body, err := WaterWorkbook([]models.WaterLog{
		{ID: 2, Qty: 2, QtyLitres: 38, Unit: models.WaterUnitBucket, Category: models.WaterCategoryBathing, Date: mustDate(t, "2026-10-15"), CreatedAt: created},
		{ID: 1, Qty: 10, QtyLitres: 2.36, Unit: models.WaterUnitCup, Category: models.WaterCategoryDrinking, Date: mustDate(t, "2026-10-14"), CreatedAt: created},
	})
	if err != nil {
		t.Fatalf("WaterWorkbook: %v", err)
	}

	rows := readRows(t, body, WaterSheet)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "ID,Date,Quantity,Unit,Litres,Category,Logged At" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	want := []string{"2", "2026-10-15", "2", "bucket", "38", "bathing", "2026-10-15T09:00:00Z"}
	if strings.Join(rows[1], ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected first row %v", rows[1])
	}
	if rows[2][4] != "2.36" {
		t.Fatalf("expected 2.36 litres, got %q", rows[2][4])
	}
}

func TestEnergyWorkbook(t *testing.T) {
	body, err := EnergyWorkbook([]models.EnergyLog{
		{ID: 9, Qty: 4.5, Unit: models.EnergyUnitKWh, Date: mustDate(t, "2026-10-01"), CreatedAt: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("EnergyWorkbook: %v", err)
	}

	rows := readRows(t, body, EnergySheet)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if strings.Join(rows[1], ",") != "9,2026-10-01,4.5,kwh,2026-10-01T08:00:00Z" {
		t.Fatalf("unexpected row %v", rows[1])
	}
}

func TestFilename(t *testing.T) {
	got := Filename("water", "month", mustDate(t, "2026-10-15"))
	if got != "water-logs-month-2026-10-15.xlsx" {
		t.Fatalf("unexpected filename %q", got)
	}
}

type fakeUploader struct {
	input *s3manager.UploadInput
	body  []byte
	err   error
}

func (f *fakeUploader) Upload(in *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return f.UploadWithContext(context.Background(), in, opts...)
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3manager.UploadOutput{Location: "https://bucket.s3.amazonaws.com/" + aws.StringValue(in.Key)}, nil
}

func TestS3ArchiverUploads(t *testing.T) {
	up := &fakeUploader{}
	archiver := &S3Archiver{Uploader: up, Bucket: "exports-bucket"}

	key := ArchiveKey("ada")
	if err := archiver.Archive(context.Background(), key, []byte("xlsx-bytes")); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if aws.StringValue(up.input.Bucket) != "exports-bucket" {
		t.Fatalf("unexpected bucket %q", aws.StringValue(up.input.Bucket))
	}
	if aws.StringValue(up.input.Key) != key || !strings.HasPrefix(key, "exports/ada/") || !strings.HasSuffix(key, ".xlsx") {
		t.Fatalf("unexpected key %q", key)
	}
	if aws.StringValue(up.input.ContentType) != ContentTypeXLSX {
		t.Fatalf("unexpected content type %q", aws.StringValue(up.input.ContentType))
	}
	if string(up.body) != "xlsx-bytes" {
		t.Fatalf("unexpected body %q", up.body)
	}
}

func TestArchiveKeyEscapesUsername(t *testing.T) {
	tests := []struct {
		username string
		prefix   string
	}{
		{username: "ada", prefix: "exports/ada/"},
		{username: "a/../b", prefix: "exports/a%2F..%2Fb/"},
		{username: "../../etc", prefix: "exports/..%2F..%2Fetc/"},
		{username: "ada lovelace", prefix: "exports/ada%20lovelace/"},
	}

	for _, tc := range tests {
		t.Run(tc.username, func(t *testing.T) {
			key := ArchiveKey(tc.username)
			if !strings.HasPrefix(key, tc.prefix) {
				t.Fatalf("expected prefix %q, got %q", tc.prefix, key)
			}
			if parts := strings.Split(key, "/"); len(parts) != 3 {
				t.Fatalf("expected 3 key segments, got %d in %q", len(parts), key)
			}
		})
	}
}

func TestS3ArchiverWrapsError(t *testing.T) {
	boom := errors.New("access denied")
	archiver := &S3Archiver{Uploader: &fakeUploader{err: boom}, Bucket: "b"}

	if err := archiver.Archive(context.Background(), "k", nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped upload error, got %v", err)
	}
}

func TestNopArchiver(t *testing.T) {
	var a Archiver = NopArchiver{}
	if err := a.Archive(context.Background(), "k", []byte("x")); err != nil {
		t.Fatalf("NopArchiver returned %v", err)
	}
}
