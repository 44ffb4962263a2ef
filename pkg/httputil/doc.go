// Package httputil provides HTTP plumbing shared by the registry client.
//
//   - [NewClient]: an http.Client with the standard request timeout
//   - [Retry]: retry with exponential backoff for transient failures
//   - [CheckStatus]: classification of registry responses
//
// Only errors wrapped in [RetryableError] are retried. [CheckStatus] wraps
// 5xx and 429 responses that way; transport failures should be wrapped by
// the caller.
//
//	err := httputil.Retry(ctx, httputil.DefaultAttempts, httputil.DefaultRetryDelay, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(resp)
//	})
package httputil
