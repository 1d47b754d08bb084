package main

import (
	"net/http"
	"time"
)

const timeoutBody = `<html lang="en">
<head><title>Request timed out</title></head>
<body>
<h1>Request timed out</h1>
<p>The coach took too long to respond. Your interview is saved, retry when ready.</p>
<div>
    <button type="button">
        <span>Retry</span>
        <script>
          document.currentScript.parentElement.addEventListener('click', function () {
            location.reload();
          });
        </script>
    </button>
</div>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler misses the deadline.
func timeoutHandler(h http.Handler, timeout time.Duration) http.Handler {
	// The deadline sits a little under the server's write timeout so the
	// timeout page can still be flushed before the connection closes.
	httpHandlerTimeout := timeout - 500*time.Millisecond //nolint:mnd // 500ms
	return http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
}
