// Package logger builds the process-wide *slog.Logger and provides attribute
// constructors for the identifiers that show up in billing and ordering logs.
//
// Context extractors add request-scoped values (request id, caller) to every
// *Context logging call:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, cfg.Name),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "invoice paid",
//		logger.InvoiceID(inv.ID),
//		logger.OrganizationID(inv.OrganizationID),
//	)
//
// Attribute helpers return an empty slog.Attr for empty identifiers, which slog
// omits from the output.
package logger
