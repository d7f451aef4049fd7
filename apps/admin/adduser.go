package main

import (
	"context"
	"fmt"

	"github.com/trezcool/edumatch/core/user"
)

// addUser registers a new user.User
func (cli *commandLine) addUser(email, name, role, pwd string) error {
	nu := user.NewUser{
		Email:    email,
		Password: pwd,
		Role:     user.Role(role),
		Name:     name,
	}
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Register(context.Background(), nu)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created %s %s <%s> (id %s)\n", usr.Role.Label(), usr.Name, usr.Email, usr.ID)
	return nil
}
