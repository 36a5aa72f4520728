package internal

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

// bindInput decodes the batch configuration from the request body. An empty
// body is fine; it just produces zero rows.
func bindInput(c echo.Context) (Input, bool) {
	var in Input
	if err := c.Bind(&in); err != nil {
		return Input{}, false
	}
	return in, true
}

// HandleProcess handles POST /api/process: runs the full pipeline and
// returns the rows plus diagnostic counts. Zero valid rows is a normal
// displayable state, not an error.
func HandleProcess(c echo.Context) error {
	in, ok := bindInput(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	result := Process(in)

	if userID, ok := c.Get("user_id").(string); ok {
		if err := RecordBatch(userID, "api", result); err != nil {
			// History is a convenience; never fail the batch over it.
			slog.Warn("Failed to record batch history", "error", err)
		}
	}

	return c.JSON(http.StatusOK, result)
}

// HandleExport handles POST /api/export: same input as process, but responds
// with the CSV document as a file attachment.
func HandleExport(c echo.Context) error {
	in, ok := bindInput(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	result := Process(in)
	doc := BuildCSV(result.Rows)

	c.Response().Header().Set("Content-Disposition", "attachment; filename="+ExportFilename)
	return c.Blob(http.StatusOK, ExportMIMEType, []byte(doc))
}

// HandleCopy handles POST /api/copy: returns the clipboard payload as plain
// text, either all canonical numbers newline-joined or, with the number
// query parameter, a single row's number.
func HandleCopy(c echo.Context) error {
	in, ok := bindInput(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	result := Process(in)

	if want := c.QueryParam("number"); want != "" {
		for _, row := range result.Rows {
			if row.Number == want {
				return c.String(http.StatusOK, row.Number)
			}
		}
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Number not in batch",
		})
	}

	return c.String(http.StatusOK, CopyPayload(result.Rows))
}

// HandleVersion returns the application version
func HandleVersion(c echo.Context) error {
	// Try to read version from version.json file first (Docker builds)
	versionFile := "/app/version.json"
	if data, err := os.ReadFile(versionFile); err == nil {
		var versionData map[string]string
		if err := json.Unmarshal(data, &versionData); err == nil {
			return c.JSON(http.StatusOK, versionData)
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"version": "dev",
	})
}
