package annotdb

import (
	"github.com/BurntSushi/migration"
	"github.com/cyclopcam/dbh"
	"github.com/cyclopcam/logs"
)

func Migrations(log logs.Log) []migration.Migrator {
	migs := []migration.Migrator{}
	idx := 0

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE TABLE frame_record(
			frame INT NOT NULL,
			object_id INT NOT NULL,
			class TEXT NOT NULL,
			contour TEXT NOT NULL,
			final INT NOT NULL,
			PRIMARY KEY (frame, object_id)
		);

		CREATE INDEX idx_frame_record_object ON frame_record (object_id);

		CREATE TABLE class(
			name TEXT PRIMARY KEY
		);

		CREATE TABLE session(
			video_path TEXT NOT NULL,
			current_frame INT NOT NULL
		);
	`))

	return migs
}
