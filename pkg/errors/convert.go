package errors

// CodePair maps an error code to its transport status codes
type CodePair struct {
	HTTPStatus int
	GRPCCode   int
}

var codeMapping = map[string]CodePair{
	ErrInternal:        {500, 13},
	ErrNotFound:        {404, 5},
	ErrInvalidArgument: {400, 3},
	ErrUnauthenticated: {401, 16},
	ErrUnauthorized:    {403, 7},
	ErrTimeout:         {504, 4},

	ErrInvalidInput:             {400, 3},
	ErrConfigurationMissing:     {500, 9},
	ErrCrmUnavailable:           {500, 14},
	ErrCrmRejected:              {500, 9},
	ErrGatewayUnavailable:       {500, 14},
	ErrGatewayRejected:          {500, 9},
	ErrUnexpectedResponseShape:  {500, 13},
	ErrOfferingNotFound:         {500, 5},
	ErrCustomerNotFound:         {500, 5},
	ErrTransactionAlreadyClosed: {500, 9},
	ErrPersistence:              {500, 13},
}

// GetCodeMapping returns the HTTP and gRPC codes for an error code.
// Unknown codes map to Internal Server Error.
func GetCodeMapping(code string) (int, int) {
	if pair, ok := codeMapping[code]; ok {
		return pair.HTTPStatus, pair.GRPCCode
	}
	return 500, 13
}
