package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AutoProcessService turns number-list files dropped into a user's ingest
// directory into CSV exports. The CSV file is the only artifact; parsed rows
// are never persisted.
type AutoProcessService struct {
	dataDir       string
	checkInterval time.Duration
	cancelFunc    context.CancelFunc
	ctx           context.Context
}

// NewAutoProcessService creates a new auto-process service
func NewAutoProcessService(dataDir string) *AutoProcessService {
	ctx, cancel := context.WithCancel(context.Background())
	return &AutoProcessService{
		dataDir:       dataDir,
		checkInterval: 1 * time.Minute,
		cancelFunc:    cancel,
		ctx:           ctx,
	}
}

// Start begins the auto-process background job
func (s *AutoProcessService) Start() {
	slog.Info("Starting auto-process service", "checkInterval", s.checkInterval)

	go func() {
		// Run immediately on start
		s.scanAllUsers()

		// Then run on interval
		ticker := time.NewTicker(s.checkInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.scanAllUsers()
			case <-s.ctx.Done():
				slog.Info("Auto-process service stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the auto-process service
func (s *AutoProcessService) Stop() {
	slog.Info("Stopping auto-process service")
	s.cancelFunc()
}

// scanAllUsers scans all user directories for files to process
func (s *AutoProcessService) scanAllUsers() {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		slog.Error("Failed to read data directory", "error", err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		userID := entry.Name()
		s.scanUserDirectory(userID)
	}
}

// scanUserDirectory scans a single user's ingest directory
func (s *AutoProcessService) scanUserDirectory(userID string) {
	ingestDir := filepath.Join(s.dataDir, userID, "ingest")

	// Check if ingest directory exists
	if _, err := os.Stat(ingestDir); os.IsNotExist(err) {
		// Create ingest directory if it doesn't exist
		if err := os.MkdirAll(ingestDir, 0755); err != nil {
			slog.Error("Failed to create ingest directory", "userID", userID, "error", err)
		}
		return
	}

	entries, err := os.ReadDir(ingestDir)
	if err != nil {
		slog.Error("Failed to read ingest directory", "userID", userID, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filename := entry.Name()

		// Skip hidden files (starting with .)
		if strings.HasPrefix(filename, ".") {
			continue
		}

		// Skip log files
		if strings.HasSuffix(filename, ".log") {
			continue
		}

		filePath := filepath.Join(ingestDir, filename)
		s.processFile(userID, filePath, filename)
	}
}

// processFile runs one dropped file through the pipeline
func (s *AutoProcessService) processFile(userID, filePath, filename string) {
	// Check if file is stable (not being written to)
	if !s.isFileStable(filePath) {
		slog.Debug("File not stable yet, skipping", "userID", userID, "file", filename)
		return
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".txt" && ext != ".csv" && ext != ".list" {
		slog.Warn("Unsupported file type", "userID", userID, "file", filename)
		return
	}

	slog.Info("Processing file", "userID", userID, "file", filename)

	// Create log file for this run
	logPath := filePath + ".log"
	logFile, err := os.Create(logPath)
	if err != nil {
		slog.Error("Failed to create log file", "userID", userID, "file", filename, "error", err)
		return
	}
	defer logFile.Close()

	logWriter := &processLogger{
		file:     logFile,
		userID:   userID,
		filename: filename,
	}

	logWriter.log("Starting processing of %s", filename)
	startTime := time.Now()

	data, err := os.ReadFile(filePath)
	if err != nil {
		logWriter.log("ERROR: Failed to read file: %v", err)
		slog.Error("Failed to read file", "userID", userID, "file", filename, "error", err)
		return
	}

	// Dropped files run under the user's saved defaults
	settings, err := GetUserSettings(userID)
	if err != nil {
		logWriter.log("WARNING: Failed to load settings, using defaults: %v", err)
		settings = GetDefaultSettings()
	}

	result := Process(Input{
		Text:        string(data),
		CountryCode: settings.CountryCode,
		Message:     settings.Message,
		Template:    settings.Template,
		Options:     settings.Options,
	})

	logWriter.log("Processing statistics:")
	logWriter.log("  Tokens seen: %d", result.Total)
	logWriter.log("  Numbers produced: %d", len(result.Rows))
	logWriter.log("  Rejected: %d", result.Rejected)
	logWriter.log("  Duplicates dropped: %d", result.Duplicates)

	if err := RecordBatch(userID, "file", result); err != nil {
		logWriter.log("WARNING: Failed to record history: %v", err)
		slog.Warn("Failed to record batch history", "userID", userID, "error", err)
	}

	// Write the CSV artifact into the complete directory
	completeDir := filepath.Join(s.dataDir, userID, "complete")
	if err := os.MkdirAll(completeDir, 0755); err != nil {
		logWriter.log("ERROR: Failed to create complete directory: %v", err)
		slog.Error("Failed to create complete directory", "userID", userID, "error", err)
		return
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	csvPath := filepath.Join(completeDir, base+".numbers.csv")
	if err := os.WriteFile(csvPath, []byte(BuildCSV(result.Rows)), 0644); err != nil {
		logWriter.log("ERROR: Failed to write CSV: %v", err)
		logWriter.log("File will remain in ingest directory for manual review")
		slog.Error("Failed to write CSV", "userID", userID, "file", filename, "error", err)
		return
	}
	logWriter.log("CSV written to: %s", csvPath)

	// Move the source file to the complete directory
	completePath := filepath.Join(completeDir, filename)
	if _, err := os.Stat(completePath); err == nil {
		// File exists, add timestamp
		timestamp := time.Now().Format("20060102_150405")
		filename = fmt.Sprintf("%s_%s%s", base, timestamp, filepath.Ext(filename))
		completePath = filepath.Join(completeDir, filename)
	}

	duration := time.Since(startTime)

	if err := os.Rename(filePath, completePath); err != nil {
		logWriter.log("ERROR: Failed to move file to complete directory: %v", err)
		slog.Error("Failed to move file", "userID", userID, "error", err)
		return
	}

	// Move log file too
	logDestPath := completePath + ".log"
	logWriter.log("Processing completed in %s", duration)
	logWriter.log("File moved to: %s", completePath)
	logFile.Close() // Close before moving
	if err := os.Rename(logPath, logDestPath); err != nil {
		slog.Warn("Failed to move log file", "userID", userID, "error", err)
	}

	slog.Info("Processing completed", "userID", userID, "file", filename,
		"numbers", len(result.Rows), "rejected", result.Rejected, "duration", duration)
}

// isFileStable checks if a file has finished being written
// Returns true if file size hasn't changed in the last 5 seconds
func (s *AutoProcessService) isFileStable(filePath string) bool {
	info1, err := os.Stat(filePath)
	if err != nil {
		return false
	}

	size1 := info1.Size()
	mod1 := info1.ModTime()

	// Wait 5 seconds
	time.Sleep(5 * time.Second)

	info2, err := os.Stat(filePath)
	if err != nil {
		return false
	}

	size2 := info2.Size()
	mod2 := info2.ModTime()

	// File is stable if size and modification time haven't changed
	return size1 == size2 && mod1.Equal(mod2)
}

// processLogger writes log messages to a file
type processLogger struct {
	file     *os.File
	userID   string
	filename string
}

func (l *processLogger) log(format string, args ...interface{}) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logLine := fmt.Sprintf("[%s] %s\n", timestamp, message)

	l.file.WriteString(logLine)
	l.file.Sync() // Ensure it's written to disk

	slog.Info("Auto-process", "userID", l.userID, "file", l.filename, "message", message)
}
