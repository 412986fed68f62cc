package canonical

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStripsCommentsAndWhitespace(t *testing.T) {
	in := "CREATE TABLE \"Node\"( -- comment\n  A b, C D, \"E F G\", h)"
	require.Equal(t, `CREATE TABLE Node(A b,C D,"E F G",h)`, Normalize(in))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"CREATE TABLE t(a, b)",
		"  CREATE   INDEX \"idx\" ON t ( a , b ) -- trailing\n",
		"CREATE TABLE \"weird name\"(x)",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeIgnoresCommentText(t *testing.T) {
	a := "CREATE TABLE t( -- first\n a INTEGER,\n b TEXT\n)"
	b := "CREATE TABLE t( -- something else entirely\n a INTEGER, b TEXT )"
	require.True(t, Equal(a, b))
}

func TestNormalizeKeepsNecessaryQuoting(t *testing.T) {
	require.Equal(t, `CREATE TABLE "my table"(a)`, Normalize(`CREATE TABLE "my table" ( a )`))
}

func TestNormalizeEmpty(t *testing.T) {
	require.Equal(t, "", Normalize(""))
	require.Equal(t, "", Normalize("   \n\t "))
}

func TestNormalizeUnquotesSimpleIdentifiers(t *testing.T) {
	require.True(t, Equal(`CREATE TABLE "users"("id" INTEGER)`, "CREATE TABLE users(id INTEGER)"))
}
