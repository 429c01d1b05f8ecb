package postgresrunner

import postgrescontainer "github.com/amidgo/bootcontainers/postgres"

var reusable = postgrescontainer.NewReusable(RunContainer(nil))

func Reusable() *postgrescontainer.Reusable {
	return reusable
}
