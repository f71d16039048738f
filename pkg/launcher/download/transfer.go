package download

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	launchererrors "github.com/justdreno/Whoap-Launcer-sub000/pkg/launcher/errors"
)

// process runs one task behind the per-destination flight group so two
// launches referencing the same file never write it concurrently.
func (q *Queue) process(ctx context.Context, task Task) error {
	for {
		ch := q.flight.DoChan(task.Dest, func() (interface{}, error) {
			return nil, q.ensure(ctx, task)
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-ch:
			if res.Err == nil {
				return nil
			}
			// A shared result cancelled by the other caller's context
			// is not our failure; run the transfer ourselves.
			if res.Shared && errors.Is(res.Err, context.Canceled) && ctx.Err() == nil {
				continue
			}
			return res.Err
		}
	}
}

// ensure makes the destination valid: short-circuit on an existing
// byte-exact file, otherwise transfer with bounded retries and backoff.
func (q *Queue) ensure(ctx context.Context, task Task) error {
	if err := VerifyFile(task.Dest, task.SHA1, task.Size); err == nil {
		q.logger.Debug("✅ Already on disk, skipping transfer", "task", task.Name)
		if task.Size > 0 {
			q.bytesMoved.Add(task.Size)
		}
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= q.attempts; attempt++ {
		if attempt > 1 {
			delay := q.retryDelay << (attempt - 2)
			q.logger.Debug("⏳ Retrying transfer",
				"task", task.Name,
				"attempt", attempt,
				"delay", delay,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := q.transfer(ctx, task)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("after %d attempts: %w", q.attempts, lastErr)
}

// transfer streams the source to "<dest>.part" while hashing, then
// renames into place only after the size and digest check out. A
// failed verification never leaves a file at the destination.
func (q *Queue) transfer(ctx context.Context, task Task) error {
	if err := os.MkdirAll(filepath.Dir(task.Dest), 0755); err != nil {
		return fmt.Errorf("%w: %v", launchererrors.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", launchererrors.ErrTransport, err)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", launchererrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s returned %s", launchererrors.ErrTransport, task.URL, resp.Status)
	}

	part := task.Dest + ".part"
	f, err := os.Create(part)
	if err != nil {
		return fmt.Errorf("%w: %v", launchererrors.ErrTransport, err)
	}

	algo, expected, err := ParseChecksum(task.SHA1)
	if task.SHA1 != "" && err != nil {
		f.Close()
		os.Remove(part)
		return err
	}

	h := algo.New()
	written, copyErr := io.Copy(io.MultiWriter(f, h), resp.Body)
	closeErr := f.Close()

	if copyErr != nil {
		os.Remove(part)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", launchererrors.ErrTransport, copyErr)
	}
	if closeErr != nil {
		os.Remove(part)
		return fmt.Errorf("%w: %v", launchererrors.ErrTransport, closeErr)
	}

	if task.Size >= 0 && written != task.Size {
		os.Remove(part)
		return fmt.Errorf("%w: %s transferred %d bytes, expected %d",
			launchererrors.ErrIntegrityMismatch, task.Name, written, task.Size)
	}
	if task.SHA1 != "" {
		actual := hex.EncodeToString(h.Sum(nil))
		if actual != expected {
			os.Remove(part)
			return fmt.Errorf("%w: %s %s digest %s, expected %s",
				launchererrors.ErrIntegrityMismatch, task.Name, algo, actual, expected)
		}
	}

	if err := os.Rename(part, task.Dest); err != nil {
		os.Remove(part)
		return fmt.Errorf("%w: %v", launchererrors.ErrTransport, err)
	}

	q.bytesMoved.Add(written)
	q.logger.Debug("📦 Transferred", "task", task.Name, "bytes", written)
	return nil
}

// nearestExisting walks up from dir to the closest directory that
// exists, for disk space probing before MkdirAll runs.
func nearestExisting(dir string) string {
	for {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
