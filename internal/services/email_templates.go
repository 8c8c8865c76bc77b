package services

const baseEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #1f2937; background-color: #f0fdf4; margin: 0; padding: 20px; }
.container { padding: 20px; max-width: 600px; margin: 20px auto; background-color: #ffffff; border: 1px solid #bbf7d0; border-radius: 8px; }
.header { font-size: 22px; font-weight: bold; color: #15803d; margin-bottom: 15px; }
.content { padding: 20px; }
.footer { margin-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">%s</div>
    <div class="content">%s</div>
    <div class="footer">
      © %d %s. All rights reserved.
    </div>
  </div>
</body>
</html>`
