package main

// Static policy copy; presentation only.

const termsText = `Terms of Service
By purchasing from SolaceStudio, you agree to these terms.
  - Digital products are licensed, not sold.
  - Do not redistribute or resell purchased assets.
  - Account access may be suspended for abuse or fraud.
  - Prices, availability, and product details can change.`

const privacyText = `Privacy Policy
SolaceStudio collects only the data needed to provide accounts and purchases.
  - We store account data (username, email, encrypted password).
  - Payment card data is handled by the payment provider and never stored by SolaceStudio.
  - Order, billing, and security logs are retained for fraud prevention and support.
  - You can request account deletion and data export by contacting support.`

const refundText = `Refund Policy
For digital products, refunds are handled under the rules below.
  - Refund requests are accepted within 14 days of purchase.
  - Refunds are available for duplicate purchases or technical delivery failures.
  - No refunds for policy violations, abuse, or completed custom work.
  - Approved refunds are returned to the original payment method.`
