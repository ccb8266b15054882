package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/parkkwangkil/wbs-project/core"
	"github.com/parkkwangkil/wbs-project/storage/database"
	sqlxrepos "github.com/parkkwangkil/wbs-project/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	sdb := sqlx.NewDb(db, "postgres")

	// start CLI
	cli := commandLine{
		db:          db,
		usrRepo:     sqlxrepos.NewUserRepository(sdb),
		projRepo:    sqlxrepos.NewProjectRepository(sdb),
		eventRepo:   sqlxrepos.NewEventRepository(sdb),
		billingRepo: sqlxrepos.NewBillingRepository(sdb),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
