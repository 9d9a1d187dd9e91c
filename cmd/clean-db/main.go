// Command-line tool to clean the database by dropping all tables in the public schema.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"jobboard-backend/internal/database"
	"jobboard-backend/internal/filestore"
)

func main() {

	// Warning message
	fmt.Println("WARNING: This command will DROP ALL TABLES in the 'public' schema of your database.")
	fmt.Println("This action is irreversible. Do you want to continue? (yes/no): ")

	// Ask for confirmation
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	input = strings.TrimSpace(strings.ToLower(input))

	if input != "yes" {
		fmt.Println("Operation cancelled.")
		return
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}

	// SQL command to drop all tables
	sql := `
	DO $$
		DECLARE
			r RECORD;
		BEGIN
			FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
				EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
			END LOOP;
		END $$;
	`

	// Execute raw SQL
	if err := db.Exec(sql).Error; err != nil {
		log.Fatalf("failed to execute drop command: %v", err)
	}

	fmt.Println("All tables dropped successfully.")

	// Stored resumes live in the bucket, not the dropped tables
	if bucket := os.Getenv("CLOUD_STORAGE_BUCKET"); bucket != "" {
		client, err := filestore.NewCloudStorageClient(bucket)
		if err != nil {
			log.Fatalf("failed to connect to cloud storage: %v", err)
		}

		names, err := client.ListFiles(filestore.ResumeObjectPrefix)
		if err != nil {
			log.Fatalf("failed to list stored resumes: %v", err)
		}

		for _, name := range names {
			if err := client.DeleteFile(name); err != nil {
				log.Printf("failed to delete %s: %v", name, err)
			}
		}
		fmt.Printf("Deleted %d stored resume objects.\n", len(names))
	}
}
