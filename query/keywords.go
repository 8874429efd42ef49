package query

func (db *Database) InsertKeyword(name string) error {
	_, err := db.Exec("INSERT OR IGNORE INTO recorder_keywords (name) VALUES (?)", name)
	return err
}

func (db *Database) DeleteKeyword(name string) error {
	_, err := db.Exec("DELETE FROM recorder_keywords WHERE name = ?", name)
	return err
}

func (db *Database) GetAllKeywords() ([]string, error) {
	names := []string{}
	err := db.Select(&names, "SELECT name FROM recorder_keywords ORDER BY name")
	return names, err
}
