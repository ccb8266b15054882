package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/parkkwangkil/wbs-project/core/billing"
	"github.com/parkkwangkil/wbs-project/core/user"
	inmemdb "github.com/parkkwangkil/wbs-project/storage/database/inmem"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	db := inmemdb.NewDB()
	billingRepo := inmemdb.NewBillingRepository(db)
	billingRepo.AddPlan(billing.SubscriptionPlan{Name: "Free", Slug: "free", MaxProjects: 3, IsDefault: true})

	return &commandLine{
		usrRepo:     inmemdb.NewUserRepository(db),
		projRepo:    inmemdb.NewProjectRepository(db),
		eventRepo:   inmemdb.NewEventRepository(db),
		billingRepo: billingRepo,
	}
}

func createUser(t *testing.T, repo user.Repository, name, uname, email, pwd string, roles []string) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  true,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "project", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := createUser(t, cli.usrRepo, "Awe", "awedemo", "awe@test.cd", "mdr", user.MemberRoles)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "lol"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := cli.usrRepo.GetUserByID(usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_createAdmin(t *testing.T) {
	cli := setup(t)

	existing := createUser(t, cli.usrRepo, "Old Member", "oldmember", "old@test.cd", "mdr", user.MemberRoles)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cr3t"), nil }

	t.Run("creates a new admin", func(t *testing.T) {
		if err := cli.run([]string{"admin", "createadmin", "-username", "bigboss", "-email", "boss@test.cd"}); err != nil {
			t.Fatalf("cli.run() unexpected error = %v", err)
		}
		usr, err := cli.usrRepo.GetUserByUsername("bigboss")
		if err != nil {
			t.Fatalf("GetUserByUsername() failed, %v", err)
		}
		if !usr.IsAdmin() {
			t.Errorf("expected admin roles, got %v", usr.Roles)
		}
		if !usr.IsActive {
			t.Error("expected an active user")
		}
		if err := usr.CheckPassword("s3cr3t"); err != nil {
			t.Errorf("CheckPassword() failed, %v", err)
		}
	})

	t.Run("promotes an existing user", func(t *testing.T) {
		if err := cli.run([]string{"admin", "createadmin", "-username", existing.Username, "-email", existing.Email}); err != nil {
			t.Fatalf("cli.run() unexpected error = %v", err)
		}
		usr, err := cli.usrRepo.GetUserByID(existing.ID)
		if err != nil {
			t.Fatalf("GetUserByID() failed, %v", err)
		}
		if !usr.IsAdmin() {
			t.Errorf("expected admin roles, got %v", usr.Roles)
		}
	})

	t.Run("missing flags", func(t *testing.T) {
		if err := cli.run([]string{"admin", "createadmin", "-username", "lonely"}); err != errHelp {
			t.Errorf("cli.run() error = %v, wantErr %v", err, errHelp)
		}
	})
}

func Test_commandLine_seedDemo(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "seeddemo"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}

	manager, err := cli.usrRepo.GetUserByUsername("demo.manager")
	if err != nil {
		t.Fatalf("GetUserByUsername() failed, %v", err)
	}
	if !manager.IsManager() {
		t.Errorf("expected manager roles, got %v", manager.Roles)
	}

	projects, err := cli.projRepo.QueryProjectsForUser(manager.ID)
	if err != nil {
		t.Fatalf("QueryProjectsForUser() failed, %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 demo project, got %d", len(projects))
	}
	phases, err := cli.projRepo.QueryPhases(projects[0].ID)
	if err != nil {
		t.Fatalf("QueryPhases() failed, %v", err)
	}
	if len(phases) != 3 {
		t.Errorf("expected 3 phases, got %d", len(phases))
	}

	events, err := cli.eventRepo.QueryEventsByOwner(manager.ID)
	if err != nil {
		t.Fatalf("QueryEventsByOwner() failed, %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}

	sub, err := cli.billingRepo.GetSubscriptionByUser(manager.ID)
	if err != nil {
		t.Fatalf("GetSubscriptionByUser() failed, %v", err)
	}
	if !sub.IsActive(time.Now()) {
		t.Error("expected an active demo subscription")
	}

	// re-seeding must fail
	if err := cli.run([]string{"admin", "seeddemo"}); err == nil {
		t.Error("expected an error on re-seed")
	}
}
