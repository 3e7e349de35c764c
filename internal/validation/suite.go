package validation

// Rule binds a validator to the form field it reads.
type Rule struct {
	Field string
	Check func(string) *FieldError
}

// Suite runs rules in order and stops at the first failure.
type Suite []Rule

// Result of a suite run. Passed lists the fields that were checked and
// passed, in order. Failed is nil when every rule passed.
type Result struct {
	Passed []string
	Failed *FieldError
}

func (r Result) OK() bool {
	return r.Failed == nil
}

// Run checks values[rule.Field] for each rule. Rules after the first
// failure are not run.
func (s Suite) Run(values map[string]string) Result {
	var res Result
	for _, rule := range s {
		if fe := rule.Check(values[rule.Field]); fe != nil {
			res.Failed = fe
			return res
		}
		res.Passed = append(res.Passed, rule.Field)
	}
	return res
}

// AccountSuite is the account-creation order. The order is part of the
// contract: the first failing field is the one reported.
var AccountSuite = Suite{
	{Field: "password", Check: Password},
	{Field: "phoneNo", Check: Phone},
	{Field: "street", Check: Street},
	{Field: "city", Check: City},
	{Field: "state", Check: State},
	{Field: "zipcode", Check: Zipcode},
	{Field: "country", Check: Country},
}

var CheckoutSuite = Suite{
	{Field: "address", Check: Address},
	{Field: "creditCard", Check: CreditCard},
}
