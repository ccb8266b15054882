package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/parkkwangkil/wbs-project/core"
	"github.com/parkkwangkil/wbs-project/core/user"
)

// createAdmin updates or creates an admin user.
func (cli *commandLine) createAdmin(uname, email, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			Name:      uname,
			Username:  uname,
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	usr.Roles = user.AllRoles
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	isActive := true
	if usr.ID == 0 {
		usr.IsActive = true
		_, err = cli.usrRepo.CreateUser(usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(usr, &isActive)
	}
	return err
}
