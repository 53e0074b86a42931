package storage

import (
	"strings"

	"github.com/gosimple/slug"
)

// BucketName maps a logical storage name to a bucket name. The prefix is the
// explicit one when given, otherwise aws_bucket_prefix as resolved by r.
func BucketName(r Resolver, storageName, prefix string) string {
	if prefix == "" && r != nil {
		prefix = r.Get(KeyBucketPrefix)
	}
	if prefix != "" {
		return slugify(prefix + " " + storageName)
	}
	return slugify(storageName)
}

// separators are turned into spaces before slug.Make, which would otherwise
// spell out "&" and "@" in English and drop quotes inside words.
var separators = strings.NewReplacer(
	"_", " ",
	"&", " ",
	"@", " ",
	"'", " ",
	"\"", " ",
	"’", " ",
)

// slugify lowercases, transliterates to ASCII and joins words with hyphens.
func slugify(s string) string {
	return slug.Make(separators.Replace(s))
}
