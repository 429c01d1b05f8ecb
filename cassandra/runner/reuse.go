package cassandrarunner

import cassandracontainer "github.com/amidgo/bootcontainers/cassandra"

var reusable = cassandracontainer.NewReusable(RunContainer(nil))

func Reusable() *cassandracontainer.Reusable {
	return reusable
}
