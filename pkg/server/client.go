package server

// clientScript keeps the page in sync: every patches or update message
// replaces the target element, and window.reactive.send posts a command.
const clientScript = `<script>
(function () {
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/ws");
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if ((msg.type === "patches" || msg.type === "update") && msg.html) {
      var el = document.getElementById(msg.target);
      if (el) el.outerHTML = msg.html;
    } else if (msg.type === "error") {
      console.warn("reactive:", msg.error);
    }
  };
  window.reactive = {
    send: function (cmd) { ws.send(JSON.stringify(cmd)); }
  };
})();
</script>
`
