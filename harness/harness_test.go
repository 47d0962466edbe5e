package harness

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExpect(t *testing.T) {
	assert := assert.New(t)

	script := strings.Join([]string{
		"# A plain comment row",
		"# EXPECT BYTES: 0D B0 07 00",
		"LOAD_CONST,0,123",
		"# expect mem[100]=123",
		"#EXPECT REG[1]=-7",
	}, "\n")

	exp, err := ParseExpect(script)
	assert.NoError(err)
	assert.Equal([]byte{0x0d, 0xb0, 0x07, 0x00}, exp.Bytes)
	assert.Equal([]Cell{{Index: 100, Value: 123}}, exp.Mem)
	assert.Equal([]Cell{{Index: 1, Value: -7}}, exp.Reg)
}

func TestParseExpectPackedBytes(t *testing.T) {
	assert := assert.New(t)

	exp, err := ParseExpect("# EXPECT BYTES: 0db00700\n")
	assert.NoError(err)
	assert.Equal([]byte{0x0d, 0xb0, 0x07, 0x00}, exp.Bytes)
}

func TestParseExpectBadHex(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseExpect("# EXPECT BYTES: zz\n")
	var ed *ErrDirective
	if assert.True(errors.As(err, &ed)) {
		assert.Equal(1, ed.LineNo)
	}
}

func TestRunScriptEncodingOnly(t *testing.T) {
	assert := assert.New(t)

	runner := &Runner{}
	result, err := runner.RunScript(strings.Join([]string{
		"# EXPECT BYTES: 0D B0 07 00",
		"LOAD_CONST,0,123",
	}, "\n"))
	assert.NoError(err)
	assert.Equal([]byte{0x0d, 0xb0, 0x07, 0x00}, result.Binary)
	assert.Nil(result.Machine)
}

func TestRunScriptBytesMismatch(t *testing.T) {
	assert := assert.New(t)

	runner := &Runner{}
	_, err := runner.RunScript(strings.Join([]string{
		"# EXPECT BYTES: FF FF FF FF",
		"LOAD_CONST,0,123",
	}, "\n"))
	var eb *ErrBytesMismatch
	assert.True(errors.As(err, &eb))
}

func TestRunScriptBytesLength(t *testing.T) {
	assert := assert.New(t)

	runner := &Runner{}
	_, err := runner.RunScript(strings.Join([]string{
		"# EXPECT BYTES: 0D B0 07 00",
		"LOAD_CONST,0,123",
		"LOAD_CONST,1,5",
	}, "\n"))
	var el ErrBytesLength
	if assert.True(errors.As(err, &el)) {
		assert.Equal(8, int(el))
	}
}

func TestRunScriptState(t *testing.T) {
	assert := assert.New(t)

	runner := &Runner{MemorySize: 1024, RegisterCount: 32}
	result, err := runner.RunScript(strings.Join([]string{
		"LOAD_CONST,0,123",
		"WRITE_MEM,0,100",
		"LOAD_CONST,2,100",
		"READ_MEM,2,1,0",
		"# EXPECT MEM[100]=123",
		"# EXPECT REG[1]=123",
	}, "\n"))
	assert.NoError(err)
	assert.NotNil(result.Machine)
	assert.Equal(int64(123), result.Machine.Register[1])
}

func TestRunScriptStateMismatch(t *testing.T) {
	assert := assert.New(t)

	runner := &Runner{}
	_, err := runner.RunScript(strings.Join([]string{
		"LOAD_CONST,0,123",
		"WRITE_MEM,0,100",
		"# EXPECT MEM[100]=999",
	}, "\n"))
	var em *ErrMemMismatch
	if assert.True(errors.As(err, &em)) {
		assert.Equal(100, em.Address)
		assert.Equal(int64(999), em.Want)
		assert.Equal(int64(123), em.Got)
	}

	_, err = runner.RunScript(strings.Join([]string{
		"LOAD_CONST,1,5",
		"# EXPECT REG[1]=6",
	}, "\n"))
	var er *ErrRegMismatch
	assert.True(errors.As(err, &er))
}

func TestRunDir(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	ok := strings.Join([]string{
		"LOAD_CONST,0,123",
		"WRITE_MEM,0,100",
		"# EXPECT MEM[100]=123",
	}, "\n")
	bad := strings.Join([]string{
		"LOAD_CONST,0,123",
		"# EXPECT REG[0],wrong syntax is ignored",
		"# EXPECT MEM[100]=123",
	}, "\n")

	assert.NoError(os.WriteFile(filepath.Join(dir, "01_ok.csv"), []byte(ok), 0o644))
	assert.NoError(os.WriteFile(filepath.Join(dir, "02_bad.csv"), []byte(bad), 0o644))

	runner := &Runner{}
	passed, failed, err := runner.RunDir(dir)
	assert.Equal(1, passed)
	assert.Equal(1, failed)

	var es *ErrScript
	if assert.True(errors.As(err, &es)) {
		assert.Contains(es.Path, "02_bad.csv")
	}
}
