// Command-line tool to repair applications_count on jobs by recounting the
// actual application rows. The counter drifts only if the process crashed
// between an application insert and its counter increment.
package main

import (
	"fmt"
	"log"

	"jobboard-backend/internal/database"
)

func main() {
	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}

	repaired, err := db.ReconcileApplicationCounts()
	if err != nil {
		log.Fatalf("failed to reconcile application counts: %v", err)
	}

	fmt.Printf("Reconciled %d job(s) with drifted application counts.\n", repaired)
}
