package internal

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Settings are the per-user saved defaults: the batch configuration fields
// plus the normalization heuristics. They seed the auto-process service and
// let the frontend restore the last used configuration.
type Settings struct {
	CountryCode string  `json:"country_code"`
	Message     string  `json:"message"`
	Template    string  `json:"template"`
	Options     Options `json:"options"`
}

// GetDefaultSettings returns the default settings
func GetDefaultSettings() Settings {
	return Settings{
		CountryCode: "+880",
		Options:     DefaultOptions(),
	}
}

// GetUserSettings retrieves settings for a user
func GetUserSettings(userID string) (Settings, error) {
	var settingsJSON string
	var updatedAt int64

	err := authDB.QueryRow(
		"SELECT settings_json, updated_at FROM settings WHERE user_id = ?",
		userID,
	).Scan(&settingsJSON, &updatedAt)

	if err == sql.ErrNoRows {
		return GetDefaultSettings(), nil
	}

	if err != nil {
		return Settings{}, err
	}

	var settings Settings
	if err := json.Unmarshal([]byte(settingsJSON), &settings); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// SaveUserSettings saves settings for a user
func SaveUserSettings(userID string, settings Settings) error {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	now := time.Now().Unix()

	_, err = authDB.Exec(`
		INSERT INTO settings (user_id, settings_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			settings_json = excluded.settings_json,
			updated_at = excluded.updated_at
	`, userID, string(settingsJSON), now)

	return err
}

// HandleGetSettings handles GET /api/settings
func HandleGetSettings(c echo.Context) error {
	userID := c.Get("user_id").(string)

	settings, err := GetUserSettings(userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to get settings",
		})
	}

	return c.JSON(http.StatusOK, settings)
}

// HandleUpdateSettings handles PUT /api/settings
func HandleUpdateSettings(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var settings Settings
	if err := c.Bind(&settings); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid settings data",
		})
	}

	// Keep the stored country code in canonical +digits form so saved
	// settings behave the same as ad-hoc request config.
	if cleaned := CleanCountryCode(settings.CountryCode); cleaned != "" {
		settings.CountryCode = cleaned
	}

	if err := SaveUserSettings(userID, settings); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save settings",
		})
	}

	return c.JSON(http.StatusOK, settings)
}
