package davsdk

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/davbox/davbox/internal/utils"
)

// DefaultWorkers is the download pool size when DownloadOpts doesn't set one.
const DefaultWorkers = 4

type DownloadJob struct {
	// RemotePath of the file to fetch.
	RemotePath string
	// Name of the local file; derived from RemotePath when empty.
	Name string
}

type DownloadResult struct {
	DownloadJob
	LocalPath string
	Error     error
}

type DownloadOpts struct {
	Jobs      []*DownloadJob
	TargetDir string
	Workers   int
}

// DownloadAll fetches many remote files into TargetDir through a bounded
// worker pool. Results arrive on the returned channel in completion order;
// the channel closes when every job finished or the context was canceled.
func (c *Client) DownloadAll(ctx context.Context, opts *DownloadOpts) <-chan *DownloadResult {
	jobs := make(chan *DownloadJob, len(opts.Jobs))
	results := make(chan *DownloadResult, len(opts.Jobs))

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					localPath, err := c.downloadToFile(ctx, opts.TargetDir, job)
					results <- &DownloadResult{
						DownloadJob: *job,
						LocalPath:   localPath,
						Error:       err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, job := range opts.Jobs {
			select {
			case <-ctx.Done():
				return
			case jobs <- job:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (c *Client) downloadToFile(ctx context.Context, targetDir string, job *DownloadJob) (string, error) {
	if err := utils.EnsureDir(targetDir); err != nil {
		return "", fmt.Errorf("download %q: %w", job.RemotePath, err)
	}

	name, err := localName(job)
	if err != nil {
		return "", err
	}
	destPath := filepath.Join(targetDir, name)

	data, err := c.DownloadFile(ctx, job.RemotePath)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return "", fmt.Errorf("download %q: %w", job.RemotePath, err)
	}
	return destPath, nil
}

// localName picks the file name written under TargetDir. Job names come
// from server listings, so only the final path segment is kept; a listing
// must not be able to place files outside the target directory.
func localName(job *DownloadJob) (string, error) {
	name := job.Name
	if name == "" {
		name = normalizePath(job.RemotePath)
	}

	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", &DAVError{
			Code:    CodeData,
			Message: fmt.Sprintf("download %q: unusable file name", job.RemotePath),
		}
	}
	return name, nil
}
