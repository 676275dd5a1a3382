package dsl

// TestMode is the execution mode tag shared by a test's runner and its
// expectation.
type TestMode string

const (
	ModeShell  TestMode = "shell"
	ModeHTTP   TestMode = "http"
	ModeGRPC   TestMode = "grpc"
	ModePytest TestMode = "pytest"
	ModeDocker TestMode = "docker"
)

// HTTPMethod enumerates the methods an http runner may use.
type HTTPMethod string

const (
	MethodGET    HTTPMethod = "GET"
	MethodPOST   HTTPMethod = "POST"
	MethodPUT    HTTPMethod = "PUT"
	MethodDELETE HTTPMethod = "DELETE"
	MethodPATCH  HTTPMethod = "PATCH"
)

// ValidHTTPMethod reports whether m is one of the five supported methods.
func ValidHTTPMethod(m string) bool {
	switch HTTPMethod(m) {
	case MethodGET, MethodPOST, MethodPUT, MethodDELETE, MethodPATCH:
		return true
	default:
		return false
	}
}

// SupportedVersions is the closed set of configuration document versions
// Config will accept.
var SupportedVersions = []string{"0.1.0"}

// IsSupportedVersion reports whether version is in SupportedVersions.
func IsSupportedVersion(version string) bool {
	for _, v := range SupportedVersions {
		if v == version {
			return true
		}
	}
	return false
}

// Keyword set constants, used by the syntax checker and the runner/expect
// field tables below.
const (
	KWDesc       = "desc"
	KWName       = "name"
	KWVersion    = "version"
	KWInputs     = "inputs"
	KWServices   = "services"
	KWTests      = "tests"
	KWImage      = "image"
	KWArgs       = "args"
	KWEnvs       = "envs"
	KWPorts      = "ports"
	KWVols       = "vols"
	KWNext       = "next"
	KWDependsOn  = "depends_on"
	KWTrigger    = "trigger"
	KWNeeds      = "needs"
	KWMode       = "mode"
	KWRunner     = "runner"
	KWExpect     = "expect"
	KWCmd        = "cmd"
	KWHeader     = "header"
	KWMethod     = "method"
	KWPayload    = "payload"
	KWEndpoint   = "endpoint"
	KWRootDir    = "root_dir"
	KWTestArgs   = "test_args"
	KWProto      = "proto"
	KWFunction   = "function"
	KWCntrName   = "cntr_name"
	KWExitCode   = "exit_code"
	KWStdout     = "stdout"
	KWStderr     = "stderr"
	KWStatusCode = "status_code"
	KWResponse   = "response"
)

// Keywords is the closed keyword set spec.md §6.1 defines for the syntax
// checker. inputs entries are exempt (their keys are user-chosen variable
// names, not keywords).
var Keywords = map[string]bool{
	KWDesc: true, KWName: true, KWVersion: true, KWInputs: true,
	KWServices: true, KWTests: true, KWImage: true, KWArgs: true,
	KWEnvs: true, KWPorts: true, KWVols: true, KWNext: true,
	KWDependsOn: true, KWTrigger: true, KWNeeds: true, KWMode: true,
	KWRunner: true, KWExpect: true, KWCmd: true, KWHeader: true,
	KWMethod: true, KWPayload: true, KWEndpoint: true, KWRootDir: true,
	KWTestArgs: true, KWProto: true, KWFunction: true, KWCntrName: true,
	KWExitCode: true, KWStdout: true, KWStderr: true, KWStatusCode: true,
	KWResponse: true,
}

// IsValidKeyword reports whether key belongs to the closed keyword set.
func IsValidKeyword(key string) bool {
	return Keywords[key]
}

// RunnerFields lists the required runner fields for each test mode (spec.md
// §3: http's header is optional, payload is optional (omitted for
// GET/DELETE); pytest's root_dir is optional).
var RunnerFields = map[TestMode][]string{
	ModeShell:  {"cmd"},
	ModeHTTP:   {"method", "endpoint"},
	ModeGRPC:   {"function", "endpoint", "payload"},
	ModePytest: {"test_args"},
	ModeDocker: {"cntr_name", "cmd"},
}

// ExpectFields lists the required expectation fields for each test mode
// (spec.md §3 Expectation table).
var ExpectFields = map[TestMode][]string{
	ModeShell:  {"exit_code", "stdout", "stderr"},
	ModeHTTP:   {"status_code", "response"},
	ModeGRPC:   {"exit_code", "response"},
	ModePytest: {"exit_code"},
	ModeDocker: {"exit_code", "stdout", "stderr"},
}
