package javaruntime

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	lockFileName     = ".provision.lock"
	completeFileName = ".provision.complete"
)

// isProcessRunning checks if a process with given PID is still running
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix, Signal(0) checks if process exists without actually sending a signal
	err = process.Signal(syscall.Signal(0))
	return err == nil
}

// tryAcquireLock attempts to acquire the exclusive provisioning lock
// for a runtime directory. Returns false when another live launcher
// process holds it; stale locks from dead processes are removed.
func tryAcquireLock(dir string, logger hclog.Logger) (bool, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, err
	}

	lockPath := filepath.Join(dir, lockFileName)
	pid := os.Getpid()

	if _, err := os.Stat(lockPath); err == nil {
		logger.Debug("🔍 Lock file exists, checking if it's stale...")

		if data, err := os.ReadFile(lockPath); err == nil {
			contents := strings.TrimSpace(string(data))
			if oldPid, err := strconv.Atoi(contents); err == nil {
				if !isProcessRunning(oldPid) {
					logger.Info("🧹 Removing stale lock from dead process", "pid", oldPid)
					os.Remove(lockPath)
				} else {
					logger.Debug("🔒 Lock held by active process", "pid", oldPid)
					return false, nil
				}
			} else {
				logger.Info("🧹 Removing invalid lock file (couldn't parse PID)")
				os.Remove(lockPath)
			}
		} else {
			logger.Info("🧹 Removing unreadable lock file")
			os.Remove(lockPath)
		}
	}

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			logger.Debug("🔒 Lock file exists, another process is provisioning")
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%d\n", pid); err != nil {
		os.Remove(lockPath)
		return false, err
	}

	logger.Debug("🔒 Acquired provisioning lock", "pid", pid, "dir", dir)
	return true, nil
}

// releaseLock releases the provisioning lock
func releaseLock(dir string, logger hclog.Logger) {
	lockPath := filepath.Join(dir, lockFileName)
	if err := os.Remove(lockPath); err != nil {
		logger.Debug("⚠️ Failed to remove lock file", "error", err)
	} else {
		logger.Debug("🔓 Released provisioning lock")
	}
}

// waitForProvision waits for another process to finish provisioning
func waitForProvision(dir string, timeout time.Duration, logger hclog.Logger) error {
	lockPath := filepath.Join(dir, lockFileName)
	deadline := time.Now().Add(timeout)

	for waited := 0; time.Now().Before(deadline); waited++ {
		if _, err := os.Stat(lockPath); os.IsNotExist(err) {
			logger.Debug("✅ Provisioning lock released, runtime should be ready")
			// Give a bit more time for files to be fully written
			time.Sleep(100 * time.Millisecond)
			return nil
		}

		if waited%10 == 0 {
			logger.Debug("⏳ Waiting for another process to finish provisioning...")
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("timeout waiting for runtime provisioning to complete")
}

// markComplete marks a runtime directory as fully provisioned
func markComplete(dir string, logger hclog.Logger) error {
	file, err := os.Create(filepath.Join(dir, completeFileName))
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%d\n", os.Getpid()); err != nil {
		return err
	}
	logger.Debug("✅ Marked runtime as provisioned")
	return nil
}

// isComplete checks if a runtime directory finished provisioning
func isComplete(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, completeFileName))
	return err == nil
}
