package miniorunner

import miniocontainer "github.com/amidgo/bootcontainers/minio"

var reusable = miniocontainer.NewReusable(RunContainer(nil))

func Reusable() *miniocontainer.Reusable {
	return reusable
}
