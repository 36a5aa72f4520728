package internal

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// RecordBatch stores the diagnostic counts of one processed batch. The
// canonical numbers themselves are never written anywhere.
func RecordBatch(userID, source string, res Result) error {
	_, err := authDB.Exec(
		"INSERT INTO batches (user_id, source, numbers, total, rejected, duplicates, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		userID, source, len(res.Rows), res.Total, res.Rejected, res.Duplicates, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record batch: %w", err)
	}
	return nil
}

// GetBatchHistory returns the most recent batch records for a user, newest
// first.
func GetBatchHistory(userID string, limit int) ([]BatchRecord, error) {
	rows, err := authDB.Query(
		"SELECT id, user_id, source, numbers, total, rejected, duplicates, created_at FROM batches WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?",
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	records := []BatchRecord{}
	for rows.Next() {
		var rec BatchRecord
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Source, &rec.Numbers, &rec.Total, &rec.Rejected, &rec.Duplicates, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batches: %w", err)
	}

	return records, nil
}

// HandleHistory handles GET /api/history
func HandleHistory(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "User not authenticated",
		})
	}

	limit := 50
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	records, err := GetBatchHistory(userID, limit)
	if err != nil {
		slog.Error("Error getting batch history", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to get history",
		})
	}

	return c.JSON(http.StatusOK, records)
}
