package utils

import (
	"os"
	"reflect"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

/* Redis */

// store a list under TypeList[:suffix]
func StoreRedisList[T any](obj any, suffix string) error {
	key := GetTypeName[T]() + "List"
	if suffix != "" {
		key += ":" + suffix
	}
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

// retrieve a list stored under TypeList[:suffix]
func RetrieveRedisList[T any](suffix string) ([]*T, error) {
	key := GetTypeName[T]() + "List"
	if suffix != "" {
		key += ":" + suffix
	}

	var result []*T
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}
