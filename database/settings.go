package database

import "database/sql"

// SaveSetting upserts a key/value pair (e.g. an AI API key).
func SaveSetting(key, value string) error {
	_, err := DB.Exec(`
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// GetSetting returns the stored value for key, or "" when it is not set.
func GetSetting(key string) (string, error) {
	var value string
	err := DB.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// DeleteSetting removes a stored setting. Deleting a missing key is not an error.
func DeleteSetting(key string) error {
	_, err := DB.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}
