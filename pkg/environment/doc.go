// Package environment names the deployment environment and carries it
// through request contexts and log records.
//
// Parse normalizes APP_ENV values ("prod", "stage", "dev" and their long
// forms). Middleware attaches an Environment to each request and
// LoggerExtractor adds it to records logged with that context:
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	log := logger.New(logger.WithContextExtractors(environment.LoggerExtractor()))
//	r.Use(environment.Middleware(env))
//
//	if environment.IsProduction(ctx) {
//	    // require secure cookies
//	}
package environment
