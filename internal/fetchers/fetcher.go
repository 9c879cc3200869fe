package fetchers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"roomclimate/internal/logger"
	"roomclimate/internal/models"
	"roomclimate/internal/storage"
)

// BucketOpener returns a storage client bound to one bucket
type BucketOpener func(ctx context.Context, bucket string) (storage.StorageClient, error)

// DataFetcher loads reading series from local files, HTTP(S) URLs and
// gs://bucket/object paths.
type DataFetcher struct {
	client     *resty.Client
	location   *time.Location
	openBucket BucketOpener
	log        *logger.Logger

	mu      sync.Mutex
	buckets map[string]storage.StorageClient
}

// Option configures a DataFetcher
type Option func(*DataFetcher)

// WithTimeout sets the HTTP request timeout
func WithTimeout(d time.Duration) Option {
	return func(f *DataFetcher) { f.client.SetTimeout(d) }
}

// WithRetries sets how many times a failed HTTP request is retried
func WithRetries(n int) Option {
	return func(f *DataFetcher) { f.client.SetRetryCount(n) }
}

// WithLocation sets the zone naive timestamps are interpreted in
func WithLocation(loc *time.Location) Option {
	return func(f *DataFetcher) { f.location = loc }
}

// WithBucketOpener replaces how gs:// buckets are opened
func WithBucketOpener(open BucketOpener) Option {
	return func(f *DataFetcher) { f.openBucket = open }
}

// NewDataFetcher creates a data fetcher instance
func NewDataFetcher(opts ...Option) *DataFetcher {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.SetRetryMaxWaitTime(2 * time.Second)
	client.SetHeader("Accept", "text/csv, text/plain, */*")
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return r != nil && r.StatusCode() >= http.StatusInternalServerError
	})

	f := &DataFetcher{
		client:   client,
		location: time.Local,
		openBucket: func(ctx context.Context, bucket string) (storage.StorageClient, error) {
			return storage.NewGCSClient(ctx, bucket)
		},
		log:     logger.WithComponent("fetcher"),
		buckets: make(map[string]storage.StorageClient),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Close releases any bucket clients opened for gs:// sources
func (f *DataFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for name, c := range f.buckets {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bucket %s: %w", name, err))
		}
		delete(f.buckets, name)
	}
	return errors.Join(errs...)
}

// LoadSeries fetches and parses a source into a series. Every failure is a
// *LoadError; missing sources also match ErrSourceNotFound.
func (f *DataFetcher) LoadSeries(ctx context.Context, source string) (*models.Series, error) {
	start := time.Now()

	data, err := f.Fetch(ctx, source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	readings, err := ParseReadings(bytes.NewReader(data), f.location)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	series := models.NewSeries(readings)
	if ok, at := series.Ordered(); !ok {
		f.log.Warn("Series timestamps are not ascending", map[string]interface{}{
			"source": source,
			"index":  at,
		})
	}

	f.log.Debug("Series loaded", map[string]interface{}{
		"source":   source,
		"readings": series.Len(),
		"duration": time.Since(start).String(),
	})
	return series, nil
}

// Fetch returns the raw bytes behind a source
func (f *DataFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return f.fetchHTTP(ctx, source)
	case strings.HasPrefix(source, "gs://"):
		return f.fetchObject(ctx, source)
	default:
		return f.fetchFile(source)
	}
}

func (f *DataFetcher) fetchFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("empty source: %w", ErrSourceNotFound)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrSourceNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func (f *DataFetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%s returned status 404: %w", url, ErrSourceNotFound)
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}

func (f *DataFetcher) fetchObject(ctx context.Context, source string) ([]byte, error) {
	bucket, object, err := SplitObjectURL(source)
	if err != nil {
		return nil, err
	}

	client, err := f.bucket(ctx, bucket)
	if err != nil {
		return nil, err
	}

	data, err := client.GetFile(ctx, object)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", source, ErrSourceNotFound)
		}
		return nil, err
	}
	return data, nil
}

func (f *DataFetcher) bucket(ctx context.Context, name string) (storage.StorageClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.buckets[name]; ok {
		return c, nil
	}
	c, err := f.openBucket(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", name, err)
	}
	f.buckets[name] = c
	return c, nil
}

// SplitObjectURL splits gs://bucket/path/to/object into bucket and object
func SplitObjectURL(source string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(source, "gs://")
	if !ok {
		return "", "", fmt.Errorf("not a gs:// URL: %q", source)
	}
	bucket, object, _ = strings.Cut(rest, "/")
	if bucket == "" || object == "" {
		return "", "", fmt.Errorf("gs:// URL needs bucket and object: %q", source)
	}
	return bucket, object, nil
}
